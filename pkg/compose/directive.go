package compose

type directiveKind uint8

const (
	replaceKind directiveKind = iota
	prependKind
	appendKind
	insertBeforeKind
	insertAfterKind
	replaceStepKind
	removeKind
)

var kindNames = map[directiveKind]string{
	replaceKind:      "replace",
	prependKind:      "prepend",
	appendKind:       "append",
	insertBeforeKind: "insert before",
	insertAfterKind:  "insert after",
	replaceStepKind:  "replace step",
	removeKind:       "remove step",
}

// Directive describes how a function should be merged into an operation:
// either replacing it wholesale or altering its pipeline relative to an
// existing step. The zero value is a whole-operation replacement.
type Directive struct {
	anchor string
	kind   directiveKind
}

// Replace discards the current behavior of the operation, pipeline included.
func Replace() Directive { return Directive{} }

// Prepend inserts the step at the start of the pipeline.
func Prepend() Directive { return Directive{kind: prependKind} }

// Append inserts the step at the end of the pipeline.
func Append() Directive { return Directive{kind: appendKind} }

// InsertBefore inserts the step right before the anchor.
func InsertBefore(anchor string) Directive {
	return Directive{kind: insertBeforeKind, anchor: anchor}
}

// InsertAfter inserts the step right after the anchor.
func InsertAfter(anchor string) Directive {
	return Directive{kind: insertAfterKind, anchor: anchor}
}

// ReplaceStep substitutes the step registered under the anchor, keeping its
// identifier.
func ReplaceStep(anchor string) Directive {
	return Directive{kind: replaceStepKind, anchor: anchor}
}

// RemoveStep deletes the step registered under the anchor.
func RemoveStep(anchor string) Directive {
	return Directive{kind: removeKind, anchor: anchor}
}

// IsReplace reports whether the directive replaces the whole operation.
func (d Directive) IsReplace() bool { return d.kind == replaceKind }

// Anchored reports whether the directive positions its step relative to an
// existing one.
func (d Directive) Anchored() bool {
	return d.kind == insertBeforeKind || d.kind == insertAfterKind
}

// Anchor returns the identifier of the step the directive refers to.
func (d Directive) Anchor() string { return d.anchor }

func (d Directive) String() string {
	name := kindNames[d.kind]
	if d.anchor != "" {
		return name + " " + d.anchor
	}

	return name
}
