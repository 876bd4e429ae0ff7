// SPDX-License-Identifier: Apache-2.0

// Package strpool allocates and manipulates zero-terminated strings inside a
// segregated pool.
//
// Narrow strings are UTF-8 []byte, wide strings are UTF-16 []uint16 in native
// byte order. Every string returned by a Pool has len equal to its character
// count and cap one larger; s[:len(s)+1] exposes the zero terminator.
//
// Operations that build a new string take a Flags set selecting operands to
// free once they have been copied. An operand is only freed when it lives in
// the pool, so literals and heap slices can be passed with any flags.
package strpool

import (
	"fmt"
	"math"
	"slices"
	"unsafe"

	"golang.org/x/text/encoding"

	arena "github.com/wundergraph/binder-arena"
)

// Kind is the encoding tag stored in the flags byte of every string allocation.
type Kind uint8

const (
	Narrow Kind = 1
	Wide   Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return "untagged"
	}
}

// Flags selects operands to free after an operation.
type Flags uint8

const (
	FreeFirst  Flags = 1 << 1
	FreeSecond Flags = 1 << 2
	FreeJoiner Flags = 1 << 3
)

// Pool is a string allocator over a SegregatedPool. It is not safe for concurrent use.
type Pool struct {
	pool *arena.SegregatedPool
	enc  *encoding.Encoder
	dec  *encoding.Decoder
}

// New creates a Pool over a fresh arena of capacity bytes.
func New(capacity uint32, opts ...arena.PoolOption) *Pool {
	return &Pool{
		pool: arena.NewSegregatedPool(capacity, opts...),
		enc:  utf16Encoding.NewEncoder(),
		dec:  utf16Encoding.NewDecoder(),
	}
}

// Arena returns the pool backing this string pool.
func (p *Pool) Arena() *arena.SegregatedPool {
	return p.pool
}

// narrow allocates n bytes plus a terminator.
func (p *Pool) narrow(n int) []byte {
	if n < 0 || uint64(n)+1 > math.MaxUint32 {
		panic(fmt.Errorf("%w: narrow string of %d bytes", arena.ErrArenaExhausted, n))
	}
	ptr := p.pool.Allocate(uint32(n+1), uint8(Narrow))
	buf := unsafe.Slice((*byte)(ptr), n+1)
	buf[n] = 0
	return buf[:n]
}

// wide allocates n UTF-16 units plus a terminator.
func (p *Pool) wide(n int) []uint16 {
	if n < 0 || 2*(uint64(n)+1) > math.MaxUint32 {
		panic(fmt.Errorf("%w: wide string of %d units", arena.ErrArenaExhausted, n))
	}
	ptr := p.pool.Allocate(uint32(2*(n+1)), uint8(Wide))
	buf := unsafe.Slice((*uint16)(ptr), n+1)
	buf[n] = 0
	return buf[:n]
}

// Allocate returns a pool-owned copy of s.
func (p *Pool) Allocate(s string) []byte {
	buf := p.narrow(len(s))
	copy(buf, s)
	return buf
}

// AllocateBytes returns a pool-owned copy of b.
func (p *Pool) AllocateBytes(b []byte) []byte {
	buf := p.narrow(len(b))
	copy(buf, b)
	return buf
}

// AllocateWide returns a pool-owned copy of w.
func (p *Pool) AllocateWide(w []uint16) []uint16 {
	buf := p.wide(len(w))
	copy(buf, w)
	return buf
}

// Free returns a narrow string to the pool. s must start at a pool allocation.
func (p *Pool) Free(s []byte) {
	p.pool.Free(dataPtr(s))
}

// FreeWide returns a wide string to the pool. w must start at a pool allocation.
func (p *Pool) FreeWide(w []uint16) {
	p.pool.Free(dataPtr(w))
}

// Owns reports whether s points into the pool's arena.
func (p *Pool) Owns(s []byte) bool {
	return p.owns(dataPtr(s))
}

// OwnsWide reports whether w points into the pool's arena.
func (p *Pool) OwnsWide(w []uint16) bool {
	return p.owns(dataPtr(w))
}

func (p *Pool) owns(ptr unsafe.Pointer) bool {
	return ptr != nil && p.pool.Owns(ptr)
}

// KindOf returns the encoding tag of a live pool string.
func (p *Pool) KindOf(s []byte) Kind {
	return Kind(p.pool.Flags(dataPtr(s)))
}

// Duplicate returns a pool-owned copy of key. Together with Release it lets
// a Pool hold the keys of a hashmap.StringMap.
func (p *Pool) Duplicate(key []byte) []byte {
	return p.AllocateBytes(key)
}

// Release frees key if it belongs to the pool.
func (p *Pool) Release(key []byte) {
	if p.Owns(key) {
		p.Free(key)
	}
}

// Concatenate returns first + joiner + second. A nil joiner adds nothing.
func (p *Pool) Concatenate(first, second, joiner []byte, flags Flags) []byte {
	buf := p.narrow(len(first) + len(joiner) + len(second))
	n := copy(buf, first)
	n += copy(buf[n:], joiner)
	copy(buf[n:], second)

	p.releaseOperands(flags, dataPtr(first), dataPtr(second), dataPtr(joiner))
	return buf
}

// ConcatenateWide is Concatenate for wide strings.
func (p *Pool) ConcatenateWide(first, second, joiner []uint16, flags Flags) []uint16 {
	buf := p.wide(len(first) + len(joiner) + len(second))
	n := copy(buf, first)
	n += copy(buf[n:], joiner)
	copy(buf[n:], second)

	p.releaseOperands(flags, dataPtr(first), dataPtr(second), dataPtr(joiner))
	return buf
}

// SubString returns a copy of src[start..end], both ends inclusive.
// end may address the terminator at len(src); the terminator itself is not copied twice.
// It panics with ErrInvertedRange when end < start and with ErrOutOfRange when
// an index lies past len(src). FreeFirst releases src.
func (p *Pool) SubString(src []byte, start, end int, flags Flags) []byte {
	if end < start {
		panic(fmt.Errorf("%w: [%d, %d]", ErrInvertedRange, start, end))
	}
	if start < 0 || end > len(src) {
		panic(fmt.Errorf("%w: [%d, %d] of %d bytes", ErrOutOfRange, start, end, len(src)))
	}
	hi := min(end+1, len(src))
	buf := p.narrow(hi - start)
	copy(buf, src[start:hi])

	p.releaseOperands(flags, dataPtr(src), nil, nil)
	return buf
}

// releaseOperands frees each selected operand that lives in the pool.
// An operand passed in more than one position is freed once.
func (p *Pool) releaseOperands(flags Flags, first, second, joiner unsafe.Pointer) {
	ops := [...]struct {
		flag Flags
		ptr  unsafe.Pointer
	}{
		{FreeFirst, first},
		{FreeSecond, second},
		{FreeJoiner, joiner},
	}
	var freed [len(ops)]unsafe.Pointer
	for i, op := range ops {
		if flags&op.flag == 0 || !p.owns(op.ptr) || slices.Contains(freed[:i], op.ptr) {
			continue
		}
		p.pool.Free(op.ptr)
		freed[i] = op.ptr
	}
}

func dataPtr[E byte | uint16](s []E) unsafe.Pointer {
	if cap(s) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s))
}
