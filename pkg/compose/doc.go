// Package compose provides declarative customization of object behaviors.
//
// The compose package lets a hierarchy of owning objects expose named
// operations whose behavior can be altered by subclasses or users without
// overriding whole methods. Each operation starts as a single callable and
// can be promoted into a pipeline: an ordered chain of identified steps that
// callers extend by inserting, replacing or removing steps relative to
// existing ones.
//
// Pipelines sharing the same step calling convention share a single cached
// shape, so the dispatch logic for structurally identical operations is only
// built once per process. When an operation declares a chain parameter, the
// value returned by each step is fed back into the named argument before the
// next step runs, and the final accumulator is returned to the caller.
//
// Every customization applied through a Support is recorded in a ledger.
// When an object is rebuilt with different construction parameters, the
// ledger of the previous instance can be replayed onto the new one. Anchors
// that no longer exist are re-resolved by scanning outward from the original
// position, so replay degrades gracefully instead of failing.
package compose
