package measure

import (
	"sync"
	"time"
)

// StepInfo accumulates the execution time of one step.
type StepInfo struct {
	Elapsed time.Duration
	Total   int64
}

type DefaultMetric struct {
	mu       *sync.Mutex
	allSteps map[string]*StepInfo
	elapsed  time.Duration
	total    int64
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.elapsed += elapsed
}

func (mt *DefaultMetric) AddStepDuration(stepID string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.allSteps[stepID] == nil {
		mt.allSteps[stepID] = &StepInfo{}
	}

	info := mt.allSteps[stepID]
	info.Elapsed += elapsed
	info.Total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.elapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) AVGStepDuration() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	avgs := make(map[string]time.Duration, len(mt.allSteps))

	for stepID, info := range mt.allSteps {
		if info.Total == 0 {
			continue
		}

		avgs[stepID] = round(time.Duration(float64(info.Elapsed) / float64(info.Total)))
	}

	return avgs
}

func (mt *DefaultMetric) AllSteps() map[string]*StepInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.allSteps
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
