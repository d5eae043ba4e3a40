package compose

import (
	"time"

	"github.com/pkg/errors"

	"github.com/atelab/go-compose/internal/store"
	"github.com/atelab/go-compose/pkg/compose/model"
)

// Owner is the contract an owning object fulfils so that its operations can
// be customized.
type Owner interface {
	// SelfAlias is the name standing for the owning object in step
	// signatures.
	SelfAlias() string
	// AnalyseFunction checks that a step can customize the operation. It
	// may rewrite the directive, typically collapsing a modification of a
	// no-op base into a replacement, and returns the signatures and chain
	// parameter to use if a pipeline must be created.
	AnalyseFunction(opName string, step Step, d Directive) (Directive, []Signature, string, error)
}

// Slot is the current binding of an operation: either a direct callable or
// a pipeline of steps. The promotion from direct to chained happens on the
// first directive that is not a whole replacement.
type Slot struct {
	direct  Step
	chained *Pipeline
}

// Chained reports whether the operation was promoted to a pipeline.
func (s *Slot) Chained() bool { return s.chained != nil }

// Pipeline returns the pipeline bound to the operation, nil when direct.
func (s *Slot) Pipeline() *Pipeline { return s.chained }

// Direct returns the plain step bound to the operation; only meaningful
// when Chained is false.
func (s *Slot) Direct() Step { return s.direct }

// Invoke runs the operation with the given owner and arguments.
func (s *Slot) Invoke(owner any, args Args) (any, error) {
	if s.chained != nil {
		return s.chained.Invoke(args)
	}

	if args == nil {
		args = Args{}
	}

	return s.direct.Fn(owner, args)
}

type record struct {
	step Step
	d    Directive
}

type ledgerEntry struct {
	// replace holds a whole-operation replacement; mods is nil then.
	replace Step
	mods    *store.OrderedStore[string, record]
}

// Support manages the customizable operations of one owning object: it
// holds the operation table, applies directives and keeps the ledger used
// to replay customizations onto a rebuilt sibling.
type Support struct {
	owner   Owner
	name    string
	slots   map[string]*Slot
	bases   map[string]Step
	customs *store.OrderedStore[string, *ledgerEntry]
	oldIDs  map[string]string
	opts    []model.Option
}

// NewSupport creates the customization support of one owning object. The
// name is only used in error reporting and option hooks.
func NewSupport(owner Owner, name string, opts ...model.Option) (*Support, error) {
	sup := &Support{
		owner:   owner,
		name:    name,
		slots:   make(map[string]*Slot),
		bases:   make(map[string]Step),
		customs: store.NewOrderedStore[string, *ledgerEntry](),
		oldIDs:  make(map[string]string),
		opts:    opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply support option")
		}
	}

	return sup, nil
}

// Name returns the name of the owning object.
func (s *Support) Name() string { return s.name }

// Owner returns the owning object.
func (s *Support) Owner() Owner { return s.owner }

// Declare registers the base callable of an operation. Operations must be
// declared before being customized or invoked.
func (s *Support) Declare(opName string, base Step) error {
	if _, ok := s.slots[opName]; ok {
		return errors.Wrapf(ErrDuplicateID, "operation %s already declared on %s", opName, s.name)
	}

	s.slots[opName] = &Slot{direct: base}
	s.bases[opName] = base

	info := &model.OperationInfo{Owner: s.name, Name: opName}
	for _, opt := range s.opts {
		err := opt.PrepareOperation(info)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare operation %s", opName)
		}
	}

	return nil
}

// Operation returns the current slot bound to an operation name.
func (s *Support) Operation(opName string) (*Slot, bool) {
	slot, ok := s.slots[opName]

	return slot, ok
}

// Invoke runs the operation with the given arguments.
func (s *Support) Invoke(opName string, args Args) (any, error) {
	slot, ok := s.slots[opName]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOperation, "no operation %s on %s", opName, s.name)
	}

	if len(s.opts) == 0 {
		return slot.Invoke(s.owner, args)
	}

	start := time.Now()

	res, err := slot.Invoke(s.owner, args)
	if err != nil {
		return nil, err
	}

	info := &model.OperationInfo{Owner: s.name, Name: opName}
	for _, opt := range s.opts {
		// Observation failures must not fail the invocation.
		_ = opt.AfterInvoke(info, time.Since(start))
	}

	return res, nil
}

// Reset rebinds the operation to its declared base callable and forgets the
// customizations recorded for it.
func (s *Support) Reset(opName string) error {
	base, ok := s.bases[opName]
	if !ok {
		return errors.Wrapf(ErrUnknownOperation, "no operation %s on %s", opName, s.name)
	}

	s.slots[opName] = &Slot{direct: base}
	s.customs.Delete(opName)
	delete(s.oldIDs, opName)

	return s.notifyModify(opName, nil)
}

// Finish runs the Finish hook of every option.
func (s *Support) Finish() error {
	for _, opt := range s.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish support option")
		}
	}

	return nil
}

// ModifyBehavior alters one operation using the provided step and
// directive. Unless internal is set, the modification is recorded in the
// ledger so that CopyCustomBehaviors can reproduce it on another object.
// Internal modifications belong to object initialisation and are not worth
// replaying.
func (s *Support) ModifyBehavior(opName string, step Step, d Directive, modifID string, internal bool) error {
	slot, ok := s.slots[opName]
	if !ok {
		return errors.Wrapf(ErrUnknownOperation, "cannot customize %s on %s", opName, s.name)
	}

	// A full replacement stands for the previously present behavior, so it
	// is tracked under the id of the base step.
	if d.IsReplace() {
		modifID = "old"
	}

	// Record the intended modification before analysis so that replay
	// reproduces the intent even when analysis simplifies it.
	if !internal {
		s.recordIntent(opName, step, d)
	}

	var (
		sigs    []Signature
		chainOn string
		intent  = d
	)

	if d.kind != removeKind {
		var err error

		d, sigs, chainOn, err = s.owner.AnalyseFunction(opName, step, d)
		if err != nil {
			return errors.Wrapf(err, "invalid customization %q of operation %s on %s", modifID, opName, s.name)
		}
	}

	if d.IsReplace() {
		s.oldIDs[opName] = modifID
		s.slots[opName] = &Slot{direct: step}

		// Analysis collapsed a stacking directive into a replacement. The
		// ledger keeps the intent: the owner of a rebuilt sibling collapses
		// it again on replay.
		if !internal && !intent.IsReplace() {
			if ledger, ok := s.customs.Get(opName); ok && ledger.mods != nil {
				ledger.mods.Set(modifID, record{step: step, d: intent})
			}
		}

		return s.notifyModify(opName, []string{modifID})
	}

	pipe := slot.chained
	if pipe == nil {
		if d.kind == removeKind {
			return errors.Wrapf(ErrAnchorNotFound, "operation %s on %s has no pipeline to remove %q from", opName, s.name, d.anchor)
		}

		oldID, ok := s.oldIDs[opName]
		if !ok {
			oldID = "old"
		}

		var err error

		pipe, err = NewPipeline(s.owner, opName, slot.direct, oldID, chainOn, sigs)
		if err != nil {
			return errors.Wrapf(err, "unable to promote operation %s on %s", opName, s.name)
		}
	}

	var err error

	switch d.kind {
	case insertBeforeKind:
		err = pipe.InsertBefore(d.anchor, modifID, step)
	case insertAfterKind:
		err = pipe.InsertAfter(d.anchor, modifID, step)
	case replaceStepKind:
		err = pipe.Replace(d.anchor, step)
	case removeKind:
		err = pipe.Remove(d.anchor)
	case prependKind:
		err = pipe.Prepend(modifID, step)
	case appendKind:
		err = pipe.Append(modifID, step)
	}

	if err != nil {
		return err
	}

	s.observe(opName, pipe)
	s.slots[opName] = &Slot{chained: pipe}

	if !internal {
		s.recordOutcome(opName, step, d, modifID, pipe)
	}

	return s.notifyModify(opName, pipe.IDs())
}

// CopyCustomBehaviors replays the customizations recorded on src onto this
// object. Anchors that disappeared are re-resolved by scanning the source
// pipeline away from the recorded step, falling back to prepending or
// appending; replay never fails on a missing anchor.
func (s *Support) CopyCustomBehaviors(src *Support) error {
	for _, opName := range src.customs.Keys() {
		ledger, _ := src.customs.Get(opName)

		if ledger.mods == nil {
			err := s.ModifyBehavior(opName, ledger.replace, Replace(), "old", false)
			if err != nil {
				return err
			}

			continue
		}

		for _, modifID := range ledger.mods.Keys() {
			rec, _ := ledger.mods.Get(modifID)

			err := s.replayOne(src, opName, modifID, rec)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Support) replayOne(src *Support, opName, modifID string, rec record) error {
	d := rec.d

	// Without an anchor the modification applies as recorded.
	if !d.Anchored() {
		return s.ModifyBehavior(opName, rec.step, d, modifID, false)
	}

	slot, ok := s.slots[opName]
	if !ok {
		return errors.Wrapf(ErrUnknownOperation, "cannot replay %q onto %s: no operation %s", modifID, s.name, opName)
	}

	// Before the promotion there is no anchor to resolve against.
	if slot.chained == nil {
		if d.kind == insertAfterKind {
			return s.ModifyBehavior(opName, rec.step, Append(), modifID, false)
		}

		return s.ModifyBehavior(opName, rec.step, Prepend(), modifID, false)
	}

	if slot.chained.Contains(d.anchor) {
		return s.ModifyBehavior(opName, rec.step, d, modifID, false)
	}

	// The anchor disappeared. Scan the source pipeline away from the
	// recorded step for the nearest id this object also knows: backward
	// for insert after, forward for insert before.
	if re, ok := s.resolveAnchor(src, opName, modifID, d, slot.chained); ok {
		return s.ModifyBehavior(opName, rec.step, re, modifID, false)
	}

	if d.kind == insertAfterKind {
		return s.ModifyBehavior(opName, rec.step, Prepend(), modifID, false)
	}

	return s.ModifyBehavior(opName, rec.step, Append(), modifID, false)
}

func (s *Support) resolveAnchor(src *Support, opName, modifID string, d Directive, ours *Pipeline) (Directive, bool) {
	srcSlot, ok := src.slots[opName]
	if !ok || srcSlot.chained == nil {
		return Directive{}, false
	}

	names := srcSlot.chained.IDs()

	shift := -1
	if d.kind == insertBeforeKind {
		shift = 1
	}

	index := srcSlot.chained.index(modifID)
	if index < 0 {
		return Directive{}, false
	}

	for index+shift >= 0 && index+shift < len(names) {
		index += shift

		if !ours.Contains(names[index]) {
			continue
		}

		if d.kind == insertBeforeKind {
			return InsertBefore(names[index]), true
		}

		return InsertAfter(names[index]), true
	}

	return Directive{}, false
}

func (s *Support) recordIntent(opName string, step Step, d Directive) {
	if d.IsReplace() {
		// A replacement discards any history of the operation.
		s.customs.Set(opName, &ledgerEntry{replace: step})

		return
	}

	ledger, ok := s.customs.Get(opName)
	if !ok {
		s.customs.Set(opName, &ledgerEntry{mods: store.NewOrderedStore[string, record]()})

		return
	}

	if ledger.mods == nil {
		// Demote the previously recorded plain replacement so that replay
		// installs it before the pipeline modifications. Recording it as a
		// replacement keeps the net effect: the base of the rebuilt object
		// was replaced, not stacked upon.
		old := ledger.replace
		ledger.replace = Step{}
		ledger.mods = store.NewOrderedStore[string, record]()
		ledger.mods.Set("old", record{step: old, d: Replace()})
	}
}

func (s *Support) recordOutcome(opName string, step Step, d Directive, modifID string, pipe *Pipeline) {
	ledger, ok := s.customs.Get(opName)
	if !ok || ledger.mods == nil {
		return
	}

	switch d.kind {
	case removeKind:
		// The net effect of removing a recorded modification is not having
		// applied it at all.
		ledger.mods.Delete(d.anchor)
	case replaceStepKind:
		if rec, ok := ledger.mods.Get(d.anchor); ok {
			rec.step = step
			ledger.mods.Set(d.anchor, rec)

			return
		}

		// Replacing the base step replays as the same in-place replacement;
		// anything positional would collide with the promotion seed.
		baseID, ok := s.oldIDs[opName]
		if !ok {
			baseID = "old"
		}

		if d.anchor == baseID {
			ledger.mods.Set(d.anchor, record{step: step, d: d})

			return
		}

		// The replaced step was never recorded (internal modification):
		// derive its position from the pipeline.
		i := pipe.index(d.anchor)
		if i == 0 {
			ledger.mods.Set(d.anchor, record{step: step, d: Prepend()})
		} else {
			ledger.mods.Set(d.anchor, record{step: step, d: InsertAfter(pipe.entries[i-1].id)})
		}
	default:
		ledger.mods.Set(modifID, record{step: step, d: d})
	}
}

func (s *Support) observe(opName string, pipe *Pipeline) {
	if len(s.opts) == 0 || pipe.onStep != nil {
		return
	}

	info := &model.OperationInfo{Owner: s.name, Name: opName}
	pipe.onStep = func(id string, elapsed time.Duration) {
		for _, opt := range s.opts {
			// Observation failures must not fail the invocation.
			_ = opt.OnInvoke(info, id, elapsed)
		}
	}
}

func (s *Support) notifyModify(opName string, steps []string) error {
	if len(s.opts) == 0 {
		return nil
	}

	info := &model.OperationInfo{Owner: s.name, Name: opName}
	for _, opt := range s.opts {
		err := opt.OnModify(info, steps)
		if err != nil {
			return errors.Wrapf(err, "unable to notify option about %s", opName)
		}
	}

	return nil
}
