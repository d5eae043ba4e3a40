package compose

import (
	"time"

	"github.com/pkg/errors"
)

// Args carries the named arguments of one operation invocation.
type Args map[string]any

// Func is the callable of a single step. It receives the owning object and
// the named arguments of the operation. The returned value is only used
// when the operation threads an accumulator.
type Func func(owner any, args Args) (any, error)

// Step bundles a callable with its declared formal parameters. The first
// parameter stands for the owning object.
type Step struct {
	Fn     Func
	Params []Param
}

// NewStep builds a step from a callable and its parameter names, following
// the marker conventions of Params.
func NewStep(fn Func, names ...string) Step {
	return Step{Fn: fn, Params: Params(names...)}
}

type entry struct {
	id   string
	step Step
}

// Pipeline is an ordered chain of identified steps implementing one
// operation. The sequence order is the execution order. Identifiers are
// unique within a pipeline.
type Pipeline struct {
	owner   any
	name    string
	shape   *Shape
	entries []entry
	onStep  func(id string, elapsed time.Duration)
}

// NewPipeline creates a pipeline for the named operation, seeded with the
// base step under baseID. The dispatch shape is looked up from the process
// cache using the provided signatures and chain parameter.
func NewPipeline(owner any, name string, base Step, baseID, chainOn string, sigs []Signature) (*Pipeline, error) {
	shape, err := ShapeFor(sigs, chainOn)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build a shape for operation %s", name)
	}

	if baseID == "" {
		baseID = "old"
	}

	pipe := &Pipeline{
		owner: owner,
		name:  name,
		shape: shape,
	}
	if base.Fn != nil {
		pipe.entries = []entry{{id: baseID, step: base}}
	}

	return pipe, nil
}

// Name returns the operation name the pipeline implements.
func (p *Pipeline) Name() string { return p.name }

// Shape returns the shared dispatch shape of the pipeline.
func (p *Pipeline) Shape() *Shape { return p.shape }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.entries) }

// IDs returns the step identifiers in execution order.
func (p *Pipeline) IDs() []string {
	ids := make([]string, 0, len(p.entries))
	for _, ent := range p.entries {
		ids = append(ids, ent.id)
	}

	return ids
}

// Contains reports whether a step is registered under the identifier.
func (p *Pipeline) Contains(id string) bool { return p.index(id) >= 0 }

// Lookup returns the step registered under the identifier.
func (p *Pipeline) Lookup(id string) (Step, bool) {
	i := p.index(id)
	if i < 0 {
		return Step{}, false
	}

	return p.entries[i].step, true
}

// Prepend inserts the step at the start of the pipeline.
func (p *Pipeline) Prepend(id string, step Step) error {
	if err := p.checkDuplicate(id); err != nil {
		return err
	}

	p.insertAt(0, id, step)

	return nil
}

// Append inserts the step at the end of the pipeline.
func (p *Pipeline) Append(id string, step Step) error {
	if err := p.checkDuplicate(id); err != nil {
		return err
	}

	p.insertAt(len(p.entries), id, step)

	return nil
}

// InsertBefore inserts the step right before the anchor.
func (p *Pipeline) InsertBefore(anchor, id string, step Step) error {
	if err := p.checkDuplicate(id); err != nil {
		return err
	}

	i := p.index(anchor)
	if i < 0 {
		return p.anchorError(anchor)
	}

	p.insertAt(i, id, step)

	return nil
}

// InsertAfter inserts the step right after the anchor.
func (p *Pipeline) InsertAfter(anchor, id string, step Step) error {
	if err := p.checkDuplicate(id); err != nil {
		return err
	}

	i := p.index(anchor)
	if i < 0 {
		return p.anchorError(anchor)
	}

	p.insertAt(i+1, id, step)

	return nil
}

// Replace substitutes the step registered under the anchor, keeping its
// identifier and position.
func (p *Pipeline) Replace(anchor string, step Step) error {
	i := p.index(anchor)
	if i < 0 {
		return p.anchorError(anchor)
	}

	p.entries[i].step = step

	return nil
}

// Remove deletes the step registered under the anchor. The identifier
// becomes available again.
func (p *Pipeline) Remove(anchor string) error {
	i := p.index(anchor)
	if i < 0 {
		return p.anchorError(anchor)
	}

	p.entries = append(p.entries[:i], p.entries[i+1:]...)

	return nil
}

// Reset empties the pipeline.
func (p *Pipeline) Reset() {
	p.entries = nil
}

// Clone returns a deep copy of the step sequence sharing the same shape,
// rebound to newOwner when one is provided.
func (p *Pipeline) Clone(newOwner any) *Pipeline {
	owner := newOwner
	if owner == nil {
		owner = p.owner
	}

	return &Pipeline{
		owner:   owner,
		name:    p.name,
		shape:   p.shape,
		entries: append([]entry(nil), p.entries...),
	}
}

// Invoke executes every step in sequence order. When the shape declares a
// chain parameter, the value returned by each step is reassigned to that
// argument before the next step runs and the final accumulator is returned;
// otherwise all steps run for effect and the result is nil.
func (p *Pipeline) Invoke(args Args) (any, error) {
	if args == nil {
		args = Args{}
	}

	return p.shape.invoke(p.owner, p.entries, args, p.onStep)
}

func (p *Pipeline) index(id string) int {
	for i, ent := range p.entries {
		if ent.id == id {
			return i
		}
	}

	return -1
}

func (p *Pipeline) checkDuplicate(id string) error {
	if p.index(id) >= 0 {
		return errors.Wrapf(ErrDuplicateID, "id %q already used in operation %s (existing: %v)", id, p.name, p.IDs())
	}

	return nil
}

func (p *Pipeline) anchorError(anchor string) error {
	return errors.Wrapf(ErrAnchorNotFound, "no step %q in operation %s (existing: %v)", anchor, p.name, p.IDs())
}

func (p *Pipeline) insertAt(i int, id string, step Step) {
	p.entries = append(p.entries, entry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = entry{id: id, step: step}
}
