package compose

import (
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateID is returned when a step is inserted under an
	// identifier already present in the pipeline.
	ErrDuplicateID = errors.New("duplicate step id")
	// ErrAnchorNotFound is returned when the anchor referenced by a
	// directive does not exist in the pipeline.
	ErrAnchorNotFound = errors.New("anchor step id not found")
	// ErrSignatureMismatch is returned when a candidate function does not
	// match the calling convention of the operation it should customize.
	ErrSignatureMismatch = errors.New("function signature does not match the operation")
	// ErrMissingFunc is returned when a declarative customization is
	// applied before a function was attached to it.
	ErrMissingFunc = errors.New("a function must be attached before applying the customization")
	// ErrNoSignatures is returned when a shape is requested without any
	// signature.
	ErrNoSignatures = errors.New("at least one signature must be provided")
	// ErrUnknownOperation is returned when customizing or invoking an
	// operation that was never declared.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrReplaceOnly is returned when an operation only supporting full
	// replacement receives a pipeline directive.
	ErrReplaceOnly = errors.New("operation only supports full replacement")
)
