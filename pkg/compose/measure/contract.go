package measure

import "time"

// Measure collects one metric per operation.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations of one operation and of its steps.
type Metric interface {
	// AddDuration records one whole invocation of the operation.
	AddDuration(elapsed time.Duration)
	// AddStepDuration records one execution of a step.
	AddStepDuration(stepID string, elapsed time.Duration)
	// AVGDuration returns the average invocation duration.
	AVGDuration() time.Duration
	// AVGStepDuration returns the average duration per step.
	AVGStepDuration() map[string]time.Duration
	// AllSteps returns the raw per-step accumulators.
	AllSteps() map[string]*StepInfo
}
