// SPDX-License-Identifier: Apache-2.0

// Package env binds identifiers to values in a chain of nested scopes.
package env

import (
	"iter"

	"github.com/wundergraph/binder-arena/hashmap"
)

// DefaultBins is the bin count of a scope's table unless WithBins is given.
const DefaultBins = 1024

type config struct {
	bins uint32
	keys hashmap.KeyStore
}

// Option configures an Environment.
type Option func(*config)

// WithBins sets the fixed bin count of the scope's table.
func WithBins(n uint32) Option {
	return func(c *config) {
		c.bins = n
	}
}

// WithKeyStore sets where copies of defined names live.
func WithKeyStore(ks hashmap.KeyStore) Option {
	return func(c *config) {
		c.keys = ks
	}
}

// Environment is one scope. Lookups and assignments fall through to the enclosing scope.
type Environment[V any] struct {
	values    *hashmap.StringMap[V]
	enclosing *Environment[V]
}

// New creates a scope nested in enclosing, which may be nil for the global scope.
func New[V any](enclosing *Environment[V], opts ...Option) *Environment[V] {
	cfg := config{bins: DefaultBins, keys: hashmap.HeapKeys}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Environment[V]{
		values:    hashmap.NewStringMap[V](cfg.bins, hashmap.WithKeyStore(cfg.keys)),
		enclosing: enclosing,
	}
}

// Define binds name in this scope, shadowing any outer binding.
// It returns false when the scope's table has no room left.
func (e *Environment[V]) Define(name []byte, value V) bool {
	return e.values.Insert(name, value)
}

// Assign rebinds the innermost existing binding of name.
// It returns false when name is bound in no scope.
func (e *Environment[V]) Assign(name []byte, value V) bool {
	for env := e; env != nil; env = env.enclosing {
		if env.values.ContainsKey(name) {
			return env.values.Insert(name, value)
		}
	}
	return false
}

// Get returns the value of the innermost binding of name.
func (e *Environment[V]) Get(name []byte) (V, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values.Get(name); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// GetString is Get for a Go string name.
func (e *Environment[V]) GetString(name string) (V, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values.GetString(name); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Clear drops every binding of this scope. Enclosing scopes are untouched.
func (e *Environment[V]) Clear() {
	e.values.Clear()
}

// Enclosing returns the enclosing scope, or nil.
func (e *Environment[V]) Enclosing() *Environment[V] {
	return e.enclosing
}

// Len returns the number of bindings in this scope.
func (e *Environment[V]) Len() int {
	return int(e.values.UsedBins())
}

// Names yields the identifiers bound in this scope in bin order.
func (e *Environment[V]) Names() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for bin := range e.values.BinCount() {
			if e.values.IsBinUsed(bin) && !yield(e.values.KeyAt(bin)) {
				return
			}
		}
	}
}
