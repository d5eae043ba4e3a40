// Package store provides a mutex-guarded key/value store preserving
// insertion order.
package store

import "sync"

// OrderedStore maps keys to values and iterates in insertion order. A key
// set again keeps its original position; a deleted key re-added moves to
// the end.
type OrderedStore[K comparable, V any] struct {
	lock   sync.RWMutex
	keys   []K
	values map[K]V
}

func NewOrderedStore[K comparable, V any]() *OrderedStore[K, V] {
	return &OrderedStore[K, V]{
		values: make(map[K]V),
	}
}

func (s *OrderedStore[K, V]) Set(k K, v V) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, k)
	}

	s.values[k] = v
}

func (s *OrderedStore[K, V]) Get(k K) (V, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.values[k]

	return v, ok
}

func (s *OrderedStore[K, V]) Contains(k K) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	_, ok := s.values[k]

	return ok
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *OrderedStore[K, V]) Delete(k K) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.values[k]; !ok {
		return
	}

	delete(s.values, k)

	for i, key := range s.keys {
		if key == k {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)

			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *OrderedStore[K, V]) Keys() []K {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]K(nil), s.keys...)
}

func (s *OrderedStore[K, V]) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.keys)
}

// Clone returns a shallow copy preserving the iteration order.
func (s *OrderedStore[K, V]) Clone() *OrderedStore[K, V] {
	s.lock.RLock()
	defer s.lock.RUnlock()

	clone := NewOrderedStore[K, V]()
	clone.keys = append([]K(nil), s.keys...)

	for k, v := range s.values {
		clone.values[k] = v
	}

	return clone
}
