// SPDX-License-Identifier: Apache-2.0

// Package hashmap provides fixed-capacity open addressing hash tables with
// linear probing and tombstoned removal.
//
// The bin count is fixed at construction. Bin states are packed two bits per
// bin. Tables are not safe for concurrent use.
package hashmap

import (
	"fmt"
	"iter"
)

// Map is an open addressing hash table over comparable keys. Keys are stored verbatim.
type Map[K comparable, V any] struct {
	t    table[K, V]
	hash Hasher[K]
}

type equalKey[K comparable] struct {
	key K
}

func (e equalKey[K]) matches(stored K) bool {
	return stored == e.key
}

// New creates a Map with a fixed number of bins.
func New[K comparable, V any](bins uint32, hash Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		t:    newTable[K, V](bins),
		hash: hash,
	}
}

// Insert binds key to value. A key already bound on its probe sequence has its
// value replaced in place. It returns false when the probe sequence of key has
// no free or deleted bin left.
func (m *Map[K, V]) Insert(key K, value V) bool {
	bin, bound, ok := slot(&m.t, m.t.home(m.hash(key)), equalKey[K]{key})
	if !ok {
		return false
	}
	if bound {
		m.t.values[bin] = value
		return true
	}
	m.t.put(bin, key, value)
	return true
}

// Get returns the value bound to key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	bin, ok := lookup(&m.t, m.t.home(m.hash(key)), equalKey[K]{key})
	if !ok {
		var zero V
		return zero, false
	}
	return m.t.values[bin], true
}

// ContainsKey reports whether key is bound.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := lookup(&m.t, m.t.home(m.hash(key)), equalKey[K]{key})
	return ok
}

// Remove unbinds key and leaves a tombstone in its bin.
// Removing a key that is not bound is a caller error: it returns false, and
// panics with ErrKeyNotFound in builds tagged binder_debug.
func (m *Map[K, V]) Remove(key K) bool {
	bin, ok := lookup(&m.t, m.t.home(m.hash(key)), equalKey[K]{key})
	if !ok {
		if debugChecks {
			panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
		}
		return false
	}
	m.t.tombstone(bin)
	return true
}

// Clear marks every bin free.
func (m *Map[K, V]) Clear() {
	m.t.clear()
}

// UsedBins returns the number of bound keys.
func (m *Map[K, V]) UsedBins() uint32 {
	return m.t.used
}

// BinCount returns the fixed number of bins.
func (m *Map[K, V]) BinCount() uint32 {
	return m.t.bins()
}

// IsBinUsed reports whether bin holds a key.
func (m *Map[K, V]) IsBinUsed(bin uint32) bool {
	return m.t.isUsed(bin)
}

// KeyAt returns the key stored in bin. It is meaningful only when IsBinUsed(bin).
func (m *Map[K, V]) KeyAt(bin uint32) K {
	return m.t.keys[bin]
}

// ValueAt returns the value stored in bin. It is meaningful only when IsBinUsed(bin).
func (m *Map[K, V]) ValueAt(bin uint32) V {
	return m.t.values[bin]
}

// All yields the bound keys and values in bin order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for bin := range m.t.bins() {
			if m.t.isUsed(bin) && !yield(m.t.keys[bin], m.t.values[bin]) {
				return
			}
		}
	}
}
