package compose

import (
	"github.com/pkg/errors"
)

// Customizable is the mutation surface a declarative customization applies
// to. *Support implements it.
type Customizable interface {
	ModifyBehavior(opName string, step Step, d Directive, modifID string, internal bool) error
}

// Customizer records a customization declared ahead of its binding: which
// operation to alter, how, and under which modification id. The function is
// attached separately with With, and the whole declaration lands on its
// target with Apply.
type Customizer struct {
	target  string
	opName  string
	d       Directive
	modifID string
	step    Step
	bound   bool
}

// Customize declares a customization of an operation of the named target.
// An empty modifID defaults to "custom".
func Customize(target, opName string, d Directive, modifID string) *Customizer {
	if modifID == "" {
		modifID = "custom"
	}

	return &Customizer{
		target:  target,
		opName:  opName,
		d:       d,
		modifID: modifID,
	}
}

// With attaches the function to use, declared with its parameter names.
func (c *Customizer) With(fn Func, params ...string) *Customizer {
	c.step = NewStep(fn, params...)
	c.bound = true

	return c
}

// Target returns the name of the object the customization applies to.
func (c *Customizer) Target() string { return c.target }

// Apply lands the declared customization on its target. Every directive but
// a step removal needs an attached function.
func (c *Customizer) Apply(target Customizable) error {
	if !c.bound && c.d.kind != removeKind {
		return errors.Wrapf(ErrMissingFunc, "customization %q of %s.%s", c.modifID, c.target, c.opName)
	}

	return target.ModifyBehavior(c.opName, c.step, c.d, c.modifID, false)
}
