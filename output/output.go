// SPDX-License-Identifier: Apache-2.0

// Package output is the print surface of the interpreter: program output goes
// to a Sink, which either writes through or accumulates in arena memory.
package output

import (
	"fmt"
	"io"
	"os"

	arena "github.com/wundergraph/binder-arena"
)

// Sink receives printed text.
type Sink interface {
	// Print emits s.
	Print(s string)
	// Flush completes pending output and drops temporary state.
	Flush()
}

// Console writes every Print straight to its writer.
type Console struct {
	w   io.Writer
	err error
}

// NewConsole creates a Console over w, or os.Stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Print writes s unless an earlier write failed.
func (c *Console) Print(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.w, s)
}

// Flush flushes writers that buffer, such as *bufio.Writer.
func (c *Console) Flush() {
	if f, ok := c.w.(interface{ Flush() error }); ok && c.err == nil {
		c.err = f.Flush()
	}
}

// Err returns the first write error. Output stops after it.
func (c *Console) Err() error {
	return c.err
}

// Buffered accumulates printed text in an arena buffer until Flush drops it.
type Buffered struct {
	buf *arena.Buffer
}

// NewBuffered creates a Buffered sink whose storage comes from a, or the heap when a is nil.
func NewBuffered(a arena.Arena) *Buffered {
	return &Buffered{buf: arena.NewArenaBuffer(a)}
}

// Print appends s to the accumulated text.
func (b *Buffered) Print(s string) {
	_, _ = b.buf.WriteString(s)
}

// Flush discards the accumulated text and keeps the storage for reuse.
func (b *Buffered) Flush() {
	b.buf.Reset()
}

// Bytes returns the accumulated text. It is valid until the next Print or Flush.
func (b *Buffered) Bytes() []byte {
	return b.buf.Bytes()
}

// String returns the accumulated text as a string.
func (b *Buffered) String() string {
	return b.buf.String()
}

// WriteTo moves the accumulated text to w.
func (b *Buffered) WriteTo(w io.Writer) (int64, error) {
	return b.buf.WriteTo(w)
}

// Release hands the storage back to the arena.
func (b *Buffered) Release() {
	b.buf.Release()
}

// Printf formats into scratch and prints the result to sink. scratch is reset
// first; each caller owns its scratch buffer.
func Printf(sink Sink, scratch *arena.Buffer, format string, args ...any) {
	scratch.Reset()
	_, _ = fmt.Fprintf(scratch, format, args...)
	sink.Print(scratch.String())
}
