package drawer

import (
	"github.com/atelab/go-compose/pkg/compose/measure"
)

// Drawer is an interface that defines the methods for drawing the operation
// pipelines of an object.
type Drawer interface {
	// AddOperation adds an operation to the graph.
	AddOperation(opName string) error
	// SetChain records the current step chain of an operation.
	SetChain(opName string, stepIDs []string) error
	// AddMeasure decorates the graph with step timings.
	AddMeasure(msr measure.Measure) error
	// Draw creates a file with the operation graph.
	Draw() error
}
