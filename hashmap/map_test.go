// SPDX-License-Identifier: Apache-2.0

package hashmap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// constantHash sends every key to bin 0 so that all keys share one probe sequence.
func constantHash[K any](K) uint64 { return 0 }

func TestStatusWords(t *testing.T) {
	s := newStatusWords(70)
	require.Len(t, s, 3)
	for bin := range uint32(70) {
		require.Equal(t, statusFree, s.get(bin))
	}

	s.set(0, statusUsed)
	s.set(31, statusDeleted)
	s.set(32, statusUnused)
	s.set(69, statusUsed)
	require.Equal(t, statusUsed, s.get(0))
	require.Equal(t, statusFree, s.get(1))
	require.Equal(t, statusFree, s.get(30))
	require.Equal(t, statusDeleted, s.get(31))
	require.Equal(t, statusUnused, s.get(32))
	require.Equal(t, statusFree, s.get(33))
	require.Equal(t, statusUsed, s.get(69))

	s.set(0, statusFree)
	require.Equal(t, statusFree, s.get(0))

	s.reset()
	for bin := range uint32(70) {
		require.Equal(t, statusFree, s.get(bin))
	}
}

func TestMapInsertGet(t *testing.T) {
	m := New[uint32, string](16, HashUint32)

	require.True(t, m.Insert(1, "one"))
	require.True(t, m.Insert(2, "two"))
	require.Equal(t, uint32(2), m.UsedBins())
	require.Equal(t, uint32(16), m.BinCount())

	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)

	_, ok = m.Get(3)
	require.False(t, ok)
	require.False(t, m.ContainsKey(3))

	// same key overwrites in place
	require.True(t, m.Insert(1, "uno"))
	require.Equal(t, uint32(2), m.UsedBins())
	v, _ = m.Get(1)
	require.Equal(t, "uno", v)
}

func TestMapZeroBinsPanics(t *testing.T) {
	require.Panics(t, func() { New[int, int](0, HashInt) })
}

func TestMapTombstoneKeepsProbeAlive(t *testing.T) {
	m := New[int, int](8, constantHash[int])

	require.True(t, m.Insert(10, 1))
	require.True(t, m.Insert(20, 2))
	require.True(t, m.Insert(30, 3))

	require.True(t, m.Remove(10))
	require.False(t, m.IsBinUsed(0))
	require.True(t, m.ContainsKey(20))
	require.True(t, m.ContainsKey(30))

	require.True(t, m.Remove(20))
	v, ok := m.Get(30)
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestMapUpdateBehindTombstone(t *testing.T) {
	m := New[int, int](8, constantHash[int])

	m.Insert(10, 1)
	m.Insert(20, 2)
	m.Remove(10)

	// 20 sits behind the tombstone in bin 0; it must be updated, not duplicated
	require.True(t, m.Insert(20, 22))
	require.Equal(t, uint32(1), m.UsedBins())
	require.False(t, m.IsBinUsed(0))

	require.True(t, m.Remove(20))
	require.False(t, m.ContainsKey(20))
	require.Equal(t, uint32(0), m.UsedBins())
}

func TestMapReusesTombstone(t *testing.T) {
	m := New[int, int](8, constantHash[int])

	m.Insert(10, 1)
	m.Insert(20, 2)
	m.Remove(10)

	require.True(t, m.Insert(30, 3))
	require.True(t, m.IsBinUsed(0))
	require.Equal(t, 30, m.KeyAt(0))
	require.Equal(t, 3, m.ValueAt(0))
}

func TestMapFull(t *testing.T) {
	m := New[int, int](4, HashInt)
	for i := range 4 {
		require.True(t, m.Insert(i, i))
	}
	require.False(t, m.Insert(99, 99))
	require.False(t, m.ContainsKey(99))

	// updates still succeed on a full table
	require.True(t, m.Insert(2, 200))
	v, _ := m.Get(2)
	require.Equal(t, 200, v)

	// a tombstone makes room again
	m.Remove(0)
	require.True(t, m.Insert(99, 99))
	require.Equal(t, uint32(4), m.UsedBins())
}

func TestMapWrapAround(t *testing.T) {
	last := func(int) uint64 { return 3 }
	m := New[int, int](4, last)

	for i := range 4 {
		require.True(t, m.Insert(i, i*10))
	}
	for i := range 4 {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i*10, v)
	}
	require.Equal(t, 0, m.KeyAt(3))
	require.Equal(t, 1, m.KeyAt(0))
}

func TestMapRemoveAbsent(t *testing.T) {
	if debugChecks {
		t.Skip("absent removal panics in debug builds")
	}
	m := New[int, int](8, HashInt)
	require.False(t, m.Remove(7))

	m.Insert(7, 7)
	require.True(t, m.Remove(7))
	require.False(t, m.Remove(7))
}

func TestMapClear(t *testing.T) {
	m := New[uint32, int](64, HashUint32)
	for i := range uint32(20) {
		m.Insert(i, int(i))
	}
	m.Remove(3)

	m.Clear()
	require.Equal(t, uint32(0), m.UsedBins())
	for i := range uint32(20) {
		require.False(t, m.ContainsKey(i))
	}
	for bin := range m.BinCount() {
		require.False(t, m.IsBinUsed(bin))
	}

	require.True(t, m.Insert(5, 500))
	v, ok := m.Get(5)
	require.True(t, ok)
	require.Equal(t, 500, v)
}

func TestMapAll(t *testing.T) {
	m := New[int, string](32, HashInt)
	want := map[int]string{1: "a", 2: "b", 3: "c"}
	for k, v := range want {
		m.Insert(k, v)
	}

	got := map[int]string{}
	for k, v := range m.All() {
		got[k] = v
	}
	require.Equal(t, want, got)

	n := 0
	for range m.All() {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestMapRandomKeys(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	keys := make(map[uint32]uint32, 1000)
	for len(keys) < 1000 {
		keys[r.Uint32()] = r.Uint32()
	}

	m := New[uint32, uint32](2000, HashUint32)
	for k, v := range keys {
		require.True(t, m.Insert(k, v))
	}
	require.Equal(t, uint32(1000), m.UsedBins())

	for k, v := range keys {
		got, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestMapMatchesReferenceModel(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	m := New[int, int](64, HashInt)
	ref := map[int]int{}

	for step := range 5000 {
		k := r.IntN(40)
		switch op := r.IntN(10); {
		case op < 5:
			require.True(t, m.Insert(k, step))
			ref[k] = step
		case op < 8:
			if _, ok := ref[k]; ok {
				require.True(t, m.Remove(k))
				delete(ref, k)
			}
		case op < 9:
			v, ok := m.Get(k)
			rv, rok := ref[k]
			require.Equal(t, rok, ok)
			require.Equal(t, rv, v)
		default:
			if r.IntN(20) == 0 {
				m.Clear()
				clear(ref)
			}
		}
		require.Equal(t, uint32(len(ref)), m.UsedBins())
	}
	for k := range 40 {
		_, ok := ref[k]
		require.Equal(t, ok, m.ContainsKey(k), "key %d", k)
	}
}

func TestHashStringMatchesBytes(t *testing.T) {
	require.Equal(t, HashBytes([]byte("binder")), HashString("binder"))
	require.NotEqual(t, HashUint32(1), HashUint32(2))
	require.Equal(t, HashUint64(42), HashInt(42))
}

func BenchmarkMapInsertGet(b *testing.B) {
	m := New[uint32, uint32](4096, HashUint32)
	b.ReportAllocs()
	for b.Loop() {
		for i := range uint32(2048) {
			m.Insert(i, i)
		}
		for i := range uint32(2048) {
			m.Get(i)
		}
		m.Clear()
	}
}
