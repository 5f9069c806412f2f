// Package lazy loads a value on first use and keeps it, or its error,
// for the rest of the invocation
package lazy

import (
	"context"
	"sync"
)

// Loader function signature for lazy loading
type Loader[T any] func(ctx context.Context) (T, error)

// Lazy represents a lazy-loaded value
type Lazy[T any] struct {
	loader Loader[T]
	value  T
	err    error
	loaded bool
	mutex  sync.Mutex
}

// New creates a new lazy value with a loader function
func New[T any](loader Loader[T]) *Lazy[T] {
	return &Lazy[T]{
		loader: loader,
	}
}

// Get returns the value, running the loader on the first call only.
// A failed load is not retried.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.loaded {
		l.value, l.err = l.loader(ctx)
		l.loaded = true
	}

	return l.value, l.err
}
