// SPDX-License-Identifier: Apache-2.0

package arena

import "encoding/binary"

// Block layout inside the arena. Every block starts with an 8-byte header:
//
//	[0:4]  total size (header + payload), little endian
//	[4]    caller flags
//	[5]    size class
//	[6]    kind (allocation or free-list node)
//	[7]    magic
//
// A freed block keeps the same first 8 bytes (kind switched to node) and adds
//
//	[8:12]  offset of the next node in its class list
//	[12:16] offset of the previous node in its class list
//
// Offsets are relative to the arena base; noBlock terminates a list.
const (
	// HeaderSize is the number of bytes preceding every payload.
	HeaderSize = 8

	nodeSize = 16

	// MinAllocSize is the smallest total block size. Any block can later host a free-list node.
	MinAllocSize = nodeSize

	blockAlign = 8

	offSize  = 0
	offFlags = 4
	offClass = 5
	offKind  = 6
	offMagic = 7
	offNext  = 8
	offPrev  = 12

	kindAlloc = 0
	kindNode  = 1

	blockMagic = 0xB1

	noBlock = ^uint32(0)
)

type blockHeader struct {
	size  uint32
	flags uint8
	class SizeClass
	node  bool
}

type freeNode struct {
	size  uint32
	class SizeClass
	next  uint32
	prev  uint32
}

// rawSize returns the total block size for a payload, or false when it does not fit a uint32.
func rawSize(payload uint32) (uint32, bool) {
	total := uint64(payload) + HeaderSize
	total = (total + blockAlign - 1) &^ (blockAlign - 1)
	if total < MinAllocSize {
		total = MinAllocSize
	}
	if total > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(total), true
}

func readHeader(mem []byte, off uint32) (blockHeader, bool) {
	b := mem[off : off+HeaderSize]
	if b[offMagic] != blockMagic {
		return blockHeader{}, false
	}
	return blockHeader{
		size:  binary.LittleEndian.Uint32(b[offSize:]),
		flags: b[offFlags],
		class: SizeClass(b[offClass]),
		node:  b[offKind] == kindNode,
	}, true
}

func writeHeader(mem []byte, off uint32, h blockHeader) {
	b := mem[off : off+HeaderSize]
	binary.LittleEndian.PutUint32(b[offSize:], h.size)
	b[offFlags] = h.flags
	b[offClass] = byte(h.class)
	b[offKind] = kindAlloc
	if h.node {
		b[offKind] = kindNode
	}
	b[offMagic] = blockMagic
}

func readNode(mem []byte, off uint32) freeNode {
	b := mem[off : off+nodeSize]
	return freeNode{
		size:  binary.LittleEndian.Uint32(b[offSize:]),
		class: SizeClass(b[offClass]),
		next:  binary.LittleEndian.Uint32(b[offNext:]),
		prev:  binary.LittleEndian.Uint32(b[offPrev:]),
	}
}

func writeNode(mem []byte, off uint32, n freeNode) {
	writeHeader(mem, off, blockHeader{size: n.size, class: n.class, node: true})
	b := mem[off : off+nodeSize]
	binary.LittleEndian.PutUint32(b[offNext:], n.next)
	binary.LittleEndian.PutUint32(b[offPrev:], n.prev)
}

func setNext(mem []byte, off, next uint32) {
	binary.LittleEndian.PutUint32(mem[off+offNext:], next)
}

func setPrev(mem []byte, off, prev uint32) {
	binary.LittleEndian.PutUint32(mem[off+offPrev:], prev)
}
