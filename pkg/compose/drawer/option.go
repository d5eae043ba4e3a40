package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/atelab/go-compose/pkg/compose/measure"
	"github.com/atelab/go-compose/pkg/compose/model"
)

type supportDrawer struct {
	Drawer
	m measure.Measure
}

func (sd *supportDrawer) New() error { return nil }

func (sd *supportDrawer) PrepareOperation(op *model.OperationInfo) error {
	err := sd.AddOperation(op.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add operation to drawer")
	}

	return nil
}

func (sd *supportDrawer) OnModify(op *model.OperationInfo, steps []string) error {
	err := sd.SetChain(op.Name, steps)
	if err != nil {
		return errors.Wrap(err, "unable to update operation chain")
	}

	return nil
}

func (sd *supportDrawer) OnInvoke(op *model.OperationInfo, stepID string, elapsed time.Duration) error {
	return nil
}

func (sd *supportDrawer) AfterInvoke(op *model.OperationInfo, total time.Duration) error {
	return nil
}

func (sd *supportDrawer) Finish() error {
	if sd.m != nil {
		err := sd.AddMeasure(sd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := sd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw operations")
	}

	return nil
}

// SupportDrawer renders the operation pipelines with drawer when the
// support finishes, decorated with the timings of msr when provided.
func SupportDrawer(drawer Drawer, msr measure.Measure) model.Option {
	return &supportDrawer{drawer, msr}
}
