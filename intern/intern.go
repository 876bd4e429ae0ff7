// SPDX-License-Identifier: Apache-2.0

// Package intern canonicalises byte strings: equal contents map to one stored
// slice, so identity comparison replaces content comparison downstream.
package intern

import (
	"fmt"
	"unsafe"

	arena "github.com/wundergraph/binder-arena"
	"github.com/wundergraph/binder-arena/hashmap"
)

// Table is a string intern table over a fixed-size StringMap.
// Every stored string is both key and value of its bin. Not safe for concurrent use.
type Table struct {
	m      *hashmap.StringMap[[]byte]
	keys   hashmap.KeyStore
	logger *arena.Logger
}

// New creates a Table with a fixed number of bins.
func New(bins uint32, opts ...Option) *Table {
	cfg := config{keys: hashmap.HeapKeys}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = arena.NoopLogger()
	}
	return &Table{
		m:      hashmap.NewStringMap[[]byte](bins, hashmap.WithKeyStore(hashmap.BorrowKeys)),
		keys:   cfg.keys,
		logger: cfg.logger,
	}
}

// Intern returns the canonical slice for the contents of b, storing a copy on first sight.
// It panics with ErrTableFull when the string cannot be stored.
func (t *Table) Intern(b []byte) []byte {
	return t.mustIntern(b, true)
}

// InternString is Intern for a Go string. Known strings are found without allocating.
func (t *Table) InternString(s string) []byte {
	if v, ok := t.m.GetString(s); ok {
		return v
	}
	return t.mustIntern([]byte(s), true)
}

// InternOwned is Intern without the copy: b itself becomes canonical, so it
// must outlive the table and must not change. Empty slices without backing
// storage are copied so that they have an identity.
func (t *Table) InternOwned(b []byte) []byte {
	return t.mustIntern(b, false)
}

func (t *Table) mustIntern(b []byte, dup bool) []byte {
	s, ok := t.TryIntern(b, dup)
	if !ok {
		panic(fmt.Errorf("%w: %d of %d bins used", ErrTableFull, t.m.UsedBins(), t.m.BinCount()))
	}
	return s
}

// TryIntern interns b, copying it first when dup is set. It reports false
// instead of panicking when the table has no room for a new string.
func (t *Table) TryIntern(b []byte, dup bool) ([]byte, bool) {
	if v, ok := t.m.Get(b); ok {
		return v, true
	}
	s := b
	owned := dup || cap(b) == 0
	if owned {
		s = t.keys.Duplicate(b)
	}
	if !t.m.Insert(s, s) {
		if owned {
			t.keys.Release(s)
		}
		t.logger.LogTableFull("intern", t.m.BinCount(), t.m.UsedBins())
		return nil, false
	}
	return s, true
}

// Lookup returns the canonical slice for b if it has been interned.
func (t *Table) Lookup(b []byte) ([]byte, bool) {
	return t.m.Get(b)
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return int(t.m.UsedBins())
}

// Same reports whether a and b are the same interned string.
func Same(a, b []byte) bool {
	return len(a) == len(b) && unsafe.SliceData(a) == unsafe.SliceData(b)
}
