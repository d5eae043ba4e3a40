package measure

import (
	"time"

	"github.com/atelab/go-compose/pkg/compose/model"
)

type supportMeasure struct {
	Measure
}

func (sm *supportMeasure) New() error { return nil }

func (sm *supportMeasure) PrepareOperation(op *model.OperationInfo) error {
	sm.AddMetric(op.Name)

	return nil
}

func (sm *supportMeasure) OnModify(op *model.OperationInfo, steps []string) error {
	return nil
}

func (sm *supportMeasure) OnInvoke(op *model.OperationInfo, stepID string, elapsed time.Duration) error {
	sm.metric(op.Name).AddStepDuration(stepID, elapsed)

	return nil
}

func (sm *supportMeasure) AfterInvoke(op *model.OperationInfo, total time.Duration) error {
	sm.metric(op.Name).AddDuration(total)

	return nil
}

func (sm *supportMeasure) Finish() error { return nil }

func (sm *supportMeasure) metric(name string) Metric {
	mt := sm.GetMetric(name)
	if mt == nil {
		mt = sm.AddMetric(name)
	}

	return mt
}

// SupportMeasure records invocation and per-step durations of every
// operation into msr.
func SupportMeasure(msr Measure) model.Option {
	return &supportMeasure{msr}
}
