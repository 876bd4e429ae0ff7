// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"io"
)

// Buffer is a bytes.Buffer-like struct backed by an arena.
// It implements io.Writer, io.ByteWriter, io.StringWriter and io.ReaderFrom.
// All memory allocation is done through the provided arena; on arenas that
// implement Reclaimer, outgrown storage is handed back as the buffer grows.
type Buffer struct {
	arena   Arena
	buf     []byte
	readBuf []byte // intermediate buffer for ReadFrom
}

// NewArenaBuffer creates a new Buffer backed by the given arena.
// If arena is nil, it will fall back to standard Go allocation.
func NewArenaBuffer(arena Arena) *Buffer {
	return &Buffer{arena: arena}
}

// Write implements io.Writer interface.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.buf = SliceAppend(b.arena, b.buf, p...)
	return len(p), nil
}

// WriteByte writes a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	b.buf = SliceAppend(b.arena, b.buf, c)
	return nil
}

// WriteString writes a string to the buffer.
func (b *Buffer) WriteString(s string) (n int, err error) {
	if len(s) == 0 {
		return 0, nil
	}
	b.Grow(len(s))
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// Grow makes room for at least n more bytes without another allocation.
func (b *Buffer) Grow(n int) {
	if n <= 0 || cap(b.buf)-len(b.buf) >= n {
		return
	}
	if b.arena == nil {
		b.buf = append(b.buf, make([]byte, n)...)[:len(b.buf)]
		return
	}
	b.buf = growSlice(b.arena, b.buf, n)
}

// WriteTo writes the buffered bytes to w and drops what was written.
func (b *Buffer) WriteTo(w io.Writer) (n int64, err error) {
	if len(b.buf) == 0 {
		return 0, nil
	}
	m, err := w.Write(b.buf)
	if m > 0 {
		n = int64(m)
		b.consume(m)
	}
	return n, err
}

// Read reads up to len(p) bytes from the front of the buffer into p.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if len(b.buf) == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, b.buf)
	b.consume(n)
	return n, nil
}

// ReadByte reads and returns the next byte from the buffer.
func (b *Buffer) ReadByte() (byte, error) {
	if len(b.buf) == 0 {
		return 0, io.EOF
	}
	c := b.buf[0]
	b.consume(1)
	return c, nil
}

// consume drops the first n bytes, shifting the rest to the front so the
// backing array keeps starting at the block the arena handed out.
func (b *Buffer) consume(n int) {
	rest := copy(b.buf, b.buf[n:])
	b.buf = b.buf[:rest]
}

// Bytes returns the buffered bytes.
// The slice is valid for use only until the next buffer modification.
func (b *Buffer) Bytes() []byte {
	if len(b.buf) == 0 {
		return []byte{}
	}
	return b.buf
}

// String returns the buffered bytes as a string.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the buffer's underlying byte slice.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer) Reset() {
	if b.buf != nil {
		b.buf = b.buf[:0]
	}
}

// Truncate discards all but the first n buffered bytes.
// It panics if n is negative or greater than the length of the buffer.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.buf) {
		panic("arena: truncation out of range")
	}
	b.buf = b.buf[:n]
}

// Release hands the buffer's storage back to the arena. The buffer can be reused afterwards.
func (b *Buffer) Release() {
	FreeSlice(b.arena, b.buf)
	FreeSlice(b.arena, b.readBuf)
	b.buf = nil
	b.readBuf = nil
}

// ReadFrom implements io.ReaderFrom interface.
// It reads data from r until EOF or error, writing it to the buffer.
// The intermediate read buffer is allocated from the arena.
func (b *Buffer) ReadFrom(r io.Reader) (n int64, err error) {
	if b.readBuf == nil {
		const readBufferSize = 4 * 1024
		b.readBuf = AllocateSlice[byte](b.arena, readBufferSize, readBufferSize)
	}
	for {
		nr, er := r.Read(b.readBuf)
		if nr > 0 {
			_, _ = b.Write(b.readBuf[:nr])
			n += int64(nr)
		}
		if er != nil {
			if er == io.EOF {
				return n, nil
			}
			return n, er
		}
	}
}
