// SPDX-License-Identifier: Apache-2.0

package hashmap

// table is the fixed-size open addressing core shared by Map and StringMap.
// Bins are probed linearly from the home bin, wrapping at the end.
// A deleted bin never ends a probe; a free bin or a full wrap does.
type table[K, V any] struct {
	keys   []K
	values []V
	status statusWords
	used   uint32
}

// keyMatcher tests a stored key against the key being probed for.
type keyMatcher[K any] interface {
	matches(stored K) bool
}

const noBin = ^uint32(0)

func newTable[K, V any](bins uint32) table[K, V] {
	if bins == 0 {
		panic("hashmap: bin count must be positive")
	}
	return table[K, V]{
		keys:   make([]K, bins),
		values: make([]V, bins),
		status: newStatusWords(bins),
	}
}

func (t *table[K, V]) bins() uint32 {
	return uint32(len(t.keys))
}

func (t *table[K, V]) home(hash uint64) uint32 {
	return uint32(hash % uint64(t.bins()))
}

// lookup returns the bin holding the key m matches.
func lookup[K, V any, M keyMatcher[K]](t *table[K, V], home uint32, m M) (uint32, bool) {
	n := t.bins()
	bin := home
	for range n {
		switch t.status.get(bin) {
		case statusUsed:
			if m.matches(t.keys[bin]) {
				return bin, true
			}
		case statusFree, statusUnused:
			return noBin, false
		}
		if bin++; bin == n {
			bin = 0
		}
	}
	return noBin, false
}

// slot returns the bin holding the key m matches, or else the first free or
// deleted bin on its probe sequence. ok is false when neither exists.
func slot[K, V any, M keyMatcher[K]](t *table[K, V], home uint32, m M) (bin uint32, bound, ok bool) {
	n := t.bins()
	writable := noBin
	bin = home
	for range n {
		switch t.status.get(bin) {
		case statusUsed:
			if m.matches(t.keys[bin]) {
				return bin, true, true
			}
		case statusDeleted:
			if writable == noBin {
				writable = bin
			}
		case statusFree, statusUnused:
			if writable == noBin {
				writable = bin
			}
			return writable, false, true
		}
		if bin++; bin == n {
			bin = 0
		}
	}
	return writable, false, writable != noBin
}

func (t *table[K, V]) put(bin uint32, key K, value V) {
	t.keys[bin] = key
	t.values[bin] = value
	t.status.set(bin, statusUsed)
	t.used++
}

// tombstone marks bin deleted and returns the key it held.
func (t *table[K, V]) tombstone(bin uint32) K {
	key := t.keys[bin]
	var (
		zk K
		zv V
	)
	t.keys[bin] = zk
	t.values[bin] = zv
	t.status.set(bin, statusDeleted)
	t.used--
	return key
}

func (t *table[K, V]) clear() {
	t.status.reset()
	clear(t.keys)
	clear(t.values)
	t.used = 0
}

func (t *table[K, V]) isUsed(bin uint32) bool {
	return t.status.get(bin) == statusUsed
}
