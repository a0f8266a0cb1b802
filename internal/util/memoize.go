package util

import "sync"

// Memoizer is a lazily evaluated, compute-only-once value. It is safe for concurrent use: if several
// goroutines call Get before the value exists, exactly one of them runs the compute function and all
// of them observe its result.
type Memoizer[T any] struct {
	once      sync.Once
	computeFn func() T
	result    T
}

// NewMemoizer creates a new uninitialized Memoizer.
func NewMemoizer[T any](computeFn func() T) *Memoizer[T] {
	return &Memoizer[T]{computeFn: computeFn}
}

// Get returns the result of the computeFn, calling it only if it has not already been called.
func (m *Memoizer[T]) Get() T {
	m.once.Do(func() {
		m.result = m.computeFn()
	})
	return m.result
}
