// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

// SegregatedPool is a fixed-capacity allocator with bump-pointer growth and three
// size-classed free lists (small, medium, large) of recyclable blocks.
//
// A request is classified by payload size. A freed block of the same class whose
// size covers the request is reused whole; otherwise the stack offset advances.
// The stack offset never moves back, so addresses stay stable for as long as a
// block is live. Freed blocks are handed to unrelated future callers.
//
// SegregatedPool is not safe for concurrent use.
type SegregatedPool struct {
	region *bumpRegion
	starts *bitset.BitSet // one bit per 8-byte granule, set where a block begins
	bounds classBounds
	logger *Logger
	scrub  bool

	heads     [numClasses]uint32
	live      [numClasses]uint32
	liveBytes uint32
	peak      uint32
	recycled  uint64
	bumped    uint64
}

// NewSegregatedPool creates a pool over an arena of capacity bytes.
func NewSegregatedPool(capacity uint32, opts ...PoolOption) *SegregatedPool {
	cfg := newPoolConfig(opts)
	p := &SegregatedPool{
		region: newBumpRegion(capacity),
		starts: bitset.New(uint(capacity / blockAlign)),
		bounds: cfg.bounds,
		logger: cfg.logger,
		scrub:  cfg.scrub,
	}
	p.resetLists()
	return p
}

func (p *SegregatedPool) resetLists() {
	for i := range p.heads {
		p.heads[i] = noBlock
		p.live[i] = 0
	}
	p.liveBytes = 0
}

// Allocate returns the address of size payload bytes tagged with flags.
// The payload is not cleared. Running out of arena space panics with ErrArenaExhausted.
func (p *SegregatedPool) Allocate(size uint32, flags uint8) unsafe.Pointer {
	ptr, err := p.allocate(size, flags)
	if err != nil {
		panic(err)
	}
	return ptr
}

func (p *SegregatedPool) allocate(size uint32, flags uint8) (unsafe.Pointer, error) {
	total, ok := rawSize(size)
	if !ok {
		p.logger.LogExhausted(size, p.region.offset, p.region.size)
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds block size limit", ErrArenaExhausted, size)
	}
	class := p.bounds.classify(size)

	if off, blockSize, found := p.recycle(class, total); found {
		p.logger.LogRecycle(class, total, blockSize)
		writeHeader(p.region.mem, off, blockHeader{size: blockSize, flags: flags, class: class})
		p.track(class, blockSize)
		p.recycled++
		return p.region.pointer(off + HeaderSize), nil
	}

	off, ok := p.region.alloc(total)
	if !ok {
		p.logger.LogExhausted(total, p.region.offset, p.region.size)
		return nil, fmt.Errorf("%w: need %d bytes at offset %d of %d",
			ErrArenaExhausted, total, p.region.offset, p.region.size)
	}
	p.starts.Set(uint(off / blockAlign))
	writeHeader(p.region.mem, off, blockHeader{size: total, flags: flags, class: class})
	p.track(class, total)
	p.bumped++
	return p.region.pointer(off + HeaderSize), nil
}

func (p *SegregatedPool) track(class SizeClass, size uint32) {
	p.live[class]++
	p.liveBytes += size
	if p.liveBytes > p.peak {
		p.peak = p.liveBytes
	}
}

// recycle scans the class list from its head for the first node that covers total
// bytes and splices it out. The block keeps its full size.
func (p *SegregatedPool) recycle(class SizeClass, total uint32) (uint32, uint32, bool) {
	mem := p.region.mem
	for off := p.heads[class]; off != noBlock; {
		n := readNode(mem, off)
		if n.size >= total {
			p.unlink(class, off, n)
			return off, n.size, true
		}
		off = n.next
	}
	return 0, 0, false
}

func (p *SegregatedPool) unlink(class SizeClass, off uint32, n freeNode) {
	mem := p.region.mem
	if n.prev != noBlock {
		setNext(mem, n.prev, n.next)
	}
	if n.next != noBlock {
		setPrev(mem, n.next, n.prev)
	}
	if p.heads[class] == off {
		p.heads[class] = n.next
	}
}

// Free returns the block addressed by ptr to the head of its class free list.
// Pointers outside the pool panic with ErrForeignPointer, released blocks with ErrDoubleFree.
func (p *SegregatedPool) Free(ptr unsafe.Pointer) {
	off, h := p.header(ptr)
	if h.node {
		panic(fmt.Errorf("%w: block at offset %d", ErrDoubleFree, off))
	}
	mem := p.region.mem
	if p.scrub {
		payload := mem[off+HeaderSize : off+h.size]
		for i := range payload {
			payload[i] = 0xFF
		}
	}

	head := p.heads[h.class]
	writeNode(mem, off, freeNode{size: h.size, class: h.class, next: head, prev: noBlock})
	if head != noBlock {
		setPrev(mem, head, off)
	}
	p.heads[h.class] = off

	p.live[h.class]--
	p.liveBytes -= h.size
}

// header locates and decodes the header preceding ptr.
func (p *SegregatedPool) header(ptr unsafe.Pointer) (uint32, blockHeader) {
	addr, ok := p.region.offsetOf(ptr)
	if !ok || addr < HeaderSize {
		panic(fmt.Errorf("%w: %p", ErrForeignPointer, ptr))
	}
	off := addr - HeaderSize
	if off%blockAlign != 0 || !p.starts.Test(uint(off/blockAlign)) {
		panic(fmt.Errorf("%w: %p is not a block start", ErrForeignPointer, ptr))
	}
	h, ok := readHeader(p.region.mem, off)
	if !ok || h.size < MinAllocSize || uint64(off)+uint64(h.size) > uint64(p.region.offset) {
		panic(fmt.Errorf("%w: %p has no valid header", ErrForeignPointer, ptr))
	}
	return off, h
}

func (p *SegregatedPool) liveHeader(ptr unsafe.Pointer) blockHeader {
	off, h := p.header(ptr)
	if h.node {
		panic(fmt.Errorf("%w: block at offset %d", ErrFreeBlock, off))
	}
	return h
}

// Owns reports whether ptr lies inside the issued part of this pool's arena.
func (p *SegregatedPool) Owns(ptr unsafe.Pointer) bool {
	_, ok := p.region.offsetOf(ptr)
	return ok
}

// IsBlockStart reports whether ptr is the payload address of a block carved from
// this pool, live or free. Interior pointers report false even when the bytes in
// front of them happen to look like a header.
func (p *SegregatedPool) IsBlockStart(ptr unsafe.Pointer) bool {
	addr, ok := p.region.offsetOf(ptr)
	if !ok || addr < HeaderSize || addr%blockAlign != 0 {
		return false
	}
	return p.starts.Test(uint((addr - HeaderSize) / blockAlign))
}

// AllocSize returns the usable payload size of a live block, which may exceed the requested size.
func (p *SegregatedPool) AllocSize(ptr unsafe.Pointer) uint32 {
	return p.RawAllocSize(ptr) - HeaderSize
}

// RawAllocSize returns the total size of a live block including its header.
func (p *SegregatedPool) RawAllocSize(ptr unsafe.Pointer) uint32 {
	return p.liveHeader(ptr).size
}

// Flags returns the caller flags stored with a live block.
func (p *SegregatedPool) Flags(ptr unsafe.Pointer) uint8 {
	return p.liveHeader(ptr).flags
}

// Class returns the size class a live block was issued from.
func (p *SegregatedPool) Class(ptr unsafe.Pointer) SizeClass {
	return p.liveHeader(ptr).class
}

// LiveCount returns the number of live blocks issued from class.
func (p *SegregatedPool) LiveCount(class SizeClass) uint32 {
	return p.live[class]
}

// FreeCount walks the free list of class and returns its length.
func (p *SegregatedPool) FreeCount(class SizeClass) uint32 {
	var n uint32
	for off := p.heads[class]; off != noBlock; off = readNode(p.region.mem, off).next {
		n++
	}
	return n
}

// Offset returns the stack offset, the number of bytes ever carved from the arena.
func (p *SegregatedPool) Offset() int {
	return int(p.region.offset)
}

// Alloc satisfies the Arena interface. The returned memory is zeroed.
// Alignments above 8 bytes and requests the arena cannot fit yield nil, so
// callers such as Allocate[T] and AllocateSlice fall back to the Go heap.
func (p *SegregatedPool) Alloc(size, alignment uintptr) unsafe.Pointer {
	if alignment > blockAlign || uint64(size) > uint64(^uint32(0)) {
		return nil
	}
	ptr, err := p.allocate(uint32(size), 0)
	if err != nil {
		return nil
	}
	clear(unsafe.Slice((*byte)(ptr), size))
	return ptr
}

// Reset satisfies the Arena interface. Every block is invalidated and the free lists are emptied.
func (p *SegregatedPool) Reset() {
	p.region.reset()
	p.starts.ClearAll()
	p.resetLists()
}

// Release satisfies the Arena interface. The pool cannot allocate afterwards.
func (p *SegregatedPool) Release() {
	p.region.release()
	p.starts.ClearAll()
	p.resetLists()
}

// Len returns the number of bytes held by live blocks, headers included.
func (p *SegregatedPool) Len() int {
	return int(p.liveBytes)
}

// Cap returns the arena capacity.
func (p *SegregatedPool) Cap() int {
	return int(p.region.size)
}

// Peak returns the highest value Len has reached. It is not reset by Reset.
func (p *SegregatedPool) Peak() int {
	return int(p.peak)
}
