package model

import "time"

// OperationInfo describes one customizable operation.
type OperationInfo struct {
	// Owner is the name of the owning object, used in reports.
	Owner string
	// Name is the operation name.
	Name string
}

// Option defines the interface for support options.
type Option interface {
	// New initialises the option.
	New() error
	// PrepareOperation runs when a base operation is declared.
	PrepareOperation(op *OperationInfo) error
	// OnModify runs after a customization landed; steps holds the
	// resulting step identifiers in execution order.
	OnModify(op *OperationInfo, steps []string) error
	// OnInvoke runs after each step of a pipeline executed.
	OnInvoke(op *OperationInfo, stepID string, elapsed time.Duration) error
	// AfterInvoke runs after a whole operation invocation.
	AfterInvoke(op *OperationInfo, total time.Duration) error
	// Finish runs when the owning object is done.
	Finish() error
}
