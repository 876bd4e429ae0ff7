// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// bumpRegion is the fixed backing store of a segregated pool. Blocks are carved
// from it by advancing offset; offset only moves back on reset.
type bumpRegion struct {
	mem    []byte
	ptr    unsafe.Pointer
	offset uint32
	size   uint32
}

func newBumpRegion(size uint32) *bumpRegion {
	r := &bumpRegion{size: size}
	r.allocate()
	return r
}

// allocate backs the region with uint64 words so that block offsets that are
// multiples of 8 yield 8-byte aligned addresses.
func (r *bumpRegion) allocate() {
	if r.size == 0 {
		return
	}
	words := make([]uint64, (uint64(r.size)+7)/8)
	r.ptr = unsafe.Pointer(unsafe.SliceData(words))
	r.mem = unsafe.Slice((*byte)(r.ptr), r.size)
}

// alloc reserves total bytes and returns their offset.
func (r *bumpRegion) alloc(total uint32) (uint32, bool) {
	if r.mem == nil || r.availableBytes() < total {
		return 0, false
	}
	off := r.offset
	r.offset += total
	return off, true
}

func (r *bumpRegion) reset() {
	if r.offset == 0 {
		return
	}
	r.offset = 0
}

func (r *bumpRegion) release() {
	r.offset = 0
	r.mem = nil
	r.ptr = nil
}

func (r *bumpRegion) availableBytes() uint32 {
	return r.size - r.offset
}

// pointer returns the address of the byte at off.
func (r *bumpRegion) pointer(off uint32) unsafe.Pointer {
	return unsafe.Add(r.ptr, off)
}

// offsetOf returns the offset of ptr, reporting false when ptr lies outside the issued part of the region.
func (r *bumpRegion) offsetOf(ptr unsafe.Pointer) (uint32, bool) {
	if r.ptr == nil || ptr == nil {
		return 0, false
	}
	base := uintptr(r.ptr)
	addr := uintptr(ptr)
	if addr < base || addr >= base+uintptr(r.offset) {
		return 0, false
	}
	return uint32(addr - base), true
}
