// SPDX-License-Identifier: Apache-2.0

package hashmap

// status is the 2-bit state of a bin.
type status uint8

const (
	statusUnused status = iota
	statusFree
	statusDeleted
	statusUsed
)

const (
	statusBits  = 2
	statusMask  = 1<<statusBits - 1
	binsPerWord = 64 / statusBits

	// allFree has every bin of a word set to statusFree.
	allFree = 0x5555555555555555
)

// statusWords packs the status of every bin, 32 bins per word.
type statusWords []uint64

func newStatusWords(bins uint32) statusWords {
	s := make(statusWords, (uint64(bins)+binsPerWord-1)/binsPerWord)
	s.reset()
	return s
}

func (s statusWords) get(bin uint32) status {
	shift := (bin % binsPerWord) * statusBits
	return status(s[bin/binsPerWord] >> shift & statusMask)
}

func (s statusWords) set(bin uint32, st status) {
	shift := (bin % binsPerWord) * statusBits
	w := &s[bin/binsPerWord]
	*w = *w&^(statusMask<<shift) | uint64(st)<<shift
}

// reset marks every bin free.
func (s statusWords) reset() {
	for i := range s {
		s[i] = allFree
	}
}
