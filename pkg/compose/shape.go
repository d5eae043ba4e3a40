package compose

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Shape is the dispatch strategy shared by every pipeline whose steps expose
// the same canonical signatures and chain parameter. Shapes are immutable
// and live for the whole process.
type Shape struct {
	key     string
	params  Signature
	chainOn string
}

// Params returns the calling convention of the shape, taken from the first
// signature it was built with.
func (sh *Shape) Params() Signature {
	return append(Signature(nil), sh.params...)
}

// ChainOn returns the name of the argument threading the accumulator, or an
// empty string when the steps run for effect only.
func (sh *Shape) ChainOn() string {
	return sh.chainOn
}

func (sh *Shape) invoke(owner any, entries []entry, args Args, onStep func(id string, elapsed time.Duration)) (any, error) {
	for _, ent := range entries {
		start := time.Now()

		ret, err := ent.step.Fn(owner, args)
		if err != nil {
			// Step failures belong to the caller, not to the engine.
			return nil, err
		}

		if onStep != nil {
			onStep(ent.id, time.Since(start))
		}

		if sh.chainOn != "" {
			args[sh.chainOn] = ret
		}
	}

	if sh.chainOn != "" {
		return args[sh.chainOn], nil
	}

	return nil, nil
}

var shapeCache = struct {
	mu     sync.RWMutex
	group  singleflight.Group
	shapes map[string]*Shape
}{shapes: make(map[string]*Shape)}

func shapeKey(sigs []Signature, chainOn string) string {
	keys := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		keys = append(keys, sig.Key())
	}

	return strings.Join(keys, ";") + "|" + chainOn
}

// ShapeFor returns the shared shape for the given signatures and chain
// parameter, building and caching it on first use. The same key always
// yields the same instance.
func ShapeFor(sigs []Signature, chainOn string) (*Shape, error) {
	if len(sigs) == 0 {
		return nil, ErrNoSignatures
	}

	key := shapeKey(sigs, chainOn)

	shapeCache.mu.RLock()
	sh, ok := shapeCache.shapes[key]
	shapeCache.mu.RUnlock()

	if ok {
		return sh, nil
	}

	built, _, _ := shapeCache.group.Do(key, func() (any, error) {
		shapeCache.mu.Lock()
		defer shapeCache.mu.Unlock()

		if sh, ok := shapeCache.shapes[key]; ok {
			return sh, nil
		}

		sh := &Shape{
			key:     key,
			params:  append(Signature(nil), sigs[0]...),
			chainOn: chainOn,
		}
		shapeCache.shapes[key] = sh

		return sh, nil
	})

	return built.(*Shape), nil
}
