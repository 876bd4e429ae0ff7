// SPDX-License-Identifier: Apache-2.0

package hashmap

import (
	"bytes"
	"fmt"
	"iter"
)

// KeyStore owns the keys of a StringMap. Duplicate is called once per newly
// bound key and Release once per removed key.
type KeyStore interface {
	Duplicate(key []byte) []byte
	Release(key []byte)
}

type heapKeys struct{}

// Duplicate copies key to the heap with a zero terminator past its end.
func (heapKeys) Duplicate(key []byte) []byte {
	dup := make([]byte, len(key)+1)
	copy(dup, key)
	return dup[:len(key):len(key)+1]
}

func (heapKeys) Release([]byte) {}

type borrowedKeys struct{}

func (borrowedKeys) Duplicate(key []byte) []byte { return key }

func (borrowedKeys) Release([]byte) {}

var (
	// HeapKeys copies every key to the Go heap. It is the default KeyStore.
	HeapKeys KeyStore = heapKeys{}

	// BorrowKeys stores caller keys as given. The caller's buffers must
	// outlive the map and must not change while bound.
	BorrowKeys KeyStore = borrowedKeys{}
)

type stringMapConfig struct {
	keys KeyStore
}

// StringMapOption configures a StringMap.
type StringMapOption func(*stringMapConfig)

// WithKeyStore sets the store that duplicates and releases keys.
func WithKeyStore(ks KeyStore) StringMapOption {
	return func(c *stringMapConfig) {
		c.keys = ks
	}
}

// StringMap is an open addressing hash table keyed by byte strings. Keys are
// compared by content and duplicated through a KeyStore when first bound, so
// callers may reuse their key buffers after Insert returns.
type StringMap[V any] struct {
	t    table[[]byte, V]
	keys KeyStore
}

type bytesKey []byte

func (k bytesKey) matches(stored []byte) bool {
	return bytes.Equal(stored, k)
}

type stringKey string

func (k stringKey) matches(stored []byte) bool {
	return string(stored) == string(k)
}

// NewStringMap creates a StringMap with a fixed number of bins.
func NewStringMap[V any](bins uint32, opts ...StringMapOption) *StringMap[V] {
	cfg := stringMapConfig{keys: HeapKeys}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &StringMap[V]{
		t:    newTable[[]byte, V](bins),
		keys: cfg.keys,
	}
}

// Insert binds key to value. An already bound key keeps its stored copy and
// has its value replaced. It returns false when the probe sequence of key has
// no free or deleted bin left.
func (m *StringMap[V]) Insert(key []byte, value V) bool {
	bin, bound, ok := slot(&m.t, m.t.home(HashBytes(key)), bytesKey(key))
	if !ok {
		return false
	}
	if bound {
		m.t.values[bin] = value
		return true
	}
	m.t.put(bin, m.keys.Duplicate(key), value)
	return true
}

// Get returns the value bound to key.
func (m *StringMap[V]) Get(key []byte) (V, bool) {
	return m.valueAt(lookup(&m.t, m.t.home(HashBytes(key)), bytesKey(key)))
}

// GetString is Get for a Go string key.
func (m *StringMap[V]) GetString(key string) (V, bool) {
	return m.valueAt(lookup(&m.t, m.t.home(HashString(key)), stringKey(key)))
}

func (m *StringMap[V]) valueAt(bin uint32, ok bool) (V, bool) {
	if !ok {
		var zero V
		return zero, false
	}
	return m.t.values[bin], true
}

// Lookup returns the stored copy of key along with its value.
func (m *StringMap[V]) Lookup(key []byte) ([]byte, V, bool) {
	bin, ok := lookup(&m.t, m.t.home(HashBytes(key)), bytesKey(key))
	if !ok {
		var zero V
		return nil, zero, false
	}
	return m.t.keys[bin], m.t.values[bin], true
}

// ContainsKey reports whether key is bound.
func (m *StringMap[V]) ContainsKey(key []byte) bool {
	_, ok := lookup(&m.t, m.t.home(HashBytes(key)), bytesKey(key))
	return ok
}

// ContainsString is ContainsKey for a Go string key.
func (m *StringMap[V]) ContainsString(key string) bool {
	_, ok := lookup(&m.t, m.t.home(HashString(key)), stringKey(key))
	return ok
}

// Remove unbinds key, leaves a tombstone in its bin and releases the stored key.
// Removing a key that is not bound is a caller error: it returns false, and
// panics with ErrKeyNotFound in builds tagged binder_debug.
func (m *StringMap[V]) Remove(key []byte) bool {
	bin, ok := lookup(&m.t, m.t.home(HashBytes(key)), bytesKey(key))
	if !ok {
		if debugChecks {
			panic(fmt.Errorf("%w: %q", ErrKeyNotFound, key))
		}
		return false
	}
	m.keys.Release(m.t.tombstone(bin))
	return true
}

// Clear marks every bin free. Stored keys are dropped without being handed
// back to the KeyStore; callers using a store that needs releases must
// remove keys individually first.
func (m *StringMap[V]) Clear() {
	m.t.clear()
}

// UsedBins returns the number of bound keys.
func (m *StringMap[V]) UsedBins() uint32 {
	return m.t.used
}

// BinCount returns the fixed number of bins.
func (m *StringMap[V]) BinCount() uint32 {
	return m.t.bins()
}

// IsBinUsed reports whether bin holds a key.
func (m *StringMap[V]) IsBinUsed(bin uint32) bool {
	return m.t.isUsed(bin)
}

// KeyAt returns the stored key in bin. It is meaningful only when IsBinUsed(bin).
func (m *StringMap[V]) KeyAt(bin uint32) []byte {
	return m.t.keys[bin]
}

// ValueAt returns the value stored in bin. It is meaningful only when IsBinUsed(bin).
func (m *StringMap[V]) ValueAt(bin uint32) V {
	return m.t.values[bin]
}

// All yields the stored keys and their values in bin order.
func (m *StringMap[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		for bin := range m.t.bins() {
			if m.t.isUsed(bin) && !yield(m.t.keys[bin], m.t.values[bin]) {
				return
			}
		}
	}
}
