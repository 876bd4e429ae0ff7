// SPDX-License-Identifier: Apache-2.0

// Package arena provides the memory layer of the binder interpreter: a fixed-capacity
// segregated pool allocator, arena-backed slices and buffers, and the logger shared
// by the string pool and intern table built on top of it.
package arena

import (
	"unsafe"
)

// Arena is an interface that describes a memory allocation arena.
type Arena interface {
	// Alloc allocates memory of the given size and returns a pointer to it.
	// The alignment parameter specifies the alignment of the allocated memory.
	// A nil result means the arena cannot serve the request and the caller should fall back to the Go heap.
	Alloc(size, alignment uintptr) unsafe.Pointer

	// Reset resets the arena's state without releasing the underlying memory.
	// After invoking this method any pointer previously returned by Alloc becomes immediately invalid.
	Reset()

	// Release releases the arena's underlying memory.
	// After invoking this method, the arena should not be used for further allocations.
	Release()

	// Len returns the number of bytes currently allocated in the arena.
	Len() int

	// Cap returns the total capacity of the arena.
	Cap() int

	// Peak returns the high-water mark of Len. It is not reset by Reset.
	Peak() int
}

// Reclaimer is implemented by arenas that can take individual blocks back.
type Reclaimer interface {
	// Owns reports whether ptr lies inside memory handed out by this arena.
	Owns(ptr unsafe.Pointer) bool

	// IsBlockStart reports whether ptr is the start of a block, as opposed to an
	// address inside one. Only block starts may be passed to Free.
	IsBlockStart(ptr unsafe.Pointer) bool

	// Free returns the block at ptr to the arena. ptr must not be used afterwards.
	Free(ptr unsafe.Pointer)
}

// Allocate allocates memory for a value of type T using the provided Arena.
// If the arena is nil or cannot serve the request, it allocates with Go's built-in new function.
func Allocate[T any](a Arena) *T {
	if a != nil {
		var x T
		if ptr := a.Alloc(unsafe.Sizeof(x), unsafe.Alignof(x)); ptr != nil {
			return (*T)(ptr)
		}
	}
	return new(T)
}

// Free hands the memory behind v back to a if a is a Reclaimer and v starts one of its blocks.
// Heap fallbacks, interior pointers and arenas without per-block reclamation are left alone.
func Free[T any](a Arena, v *T) {
	release(a, unsafe.Pointer(v))
}

func release(a Arena, ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	if r, ok := a.(Reclaimer); ok && r.IsBlockStart(ptr) {
		r.Free(ptr)
	}
}
