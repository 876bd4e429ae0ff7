// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

const growThreshold = 256

// AllocateSlice creates a slice of type T with a given length and capacity,
// using the provided Arena for memory allocation.
// If the arena is nil or cannot serve the request, it returns a slice from Go's built-in make function.
func AllocateSlice[T any](a Arena, len, cap int) []T {
	if a != nil && cap > 0 {
		var x T
		bufSize := int(unsafe.Sizeof(x)) * cap
		if ptr := (*T)(a.Alloc(uintptr(bufSize), unsafe.Alignof(x))); ptr != nil {
			s := unsafe.Slice(ptr, cap)
			return s[:len]
		}
	}
	return make([]T, len, cap)
}

// FreeSlice hands the backing array of s back to a when a is a Reclaimer and s
// starts at one of its blocks. Re-slices that begin inside a block are left alone.
// When a block is returned, s and every slice sharing it must not be used afterwards.
func FreeSlice[T any](a Arena, s []T) {
	if cap(s) == 0 {
		return
	}
	release(a, unsafe.Pointer(unsafe.SliceData(s)))
}

// SliceAppend appends elements to a slice of type T using a provided Arena
// for memory allocation if needed. When the slice has to grow, the old backing
// array is returned to arenas that support reclamation.
func SliceAppend[T any](a Arena, s []T, data ...T) []T {
	if a == nil {
		return append(s, data...)
	}
	s = growSlice(a, s, len(data))
	s = append(s, data...)
	return s
}

func growSlice[T any](a Arena, s []T, dataLen int) []T {
	newLen := len(s) + dataLen
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = dataLen
	}
	if newCap == cap(s) {
		return s
	}
	s2 := AllocateSlice[T](a, len(s), newCap)
	copy(s2, s)
	FreeSlice(a, s)
	return s2
}
