// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func bufferData(b *Buffer) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b.buf))
}

func TestArenaBufferBasicOperations(t *testing.T) {
	pool := NewSegregatedPool(4096)
	buf := NewArenaBuffer(pool)

	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, buf.Cap())
	require.Equal(t, "", buf.String())
	require.Equal(t, []byte{}, buf.Bytes())

	n, err := buf.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", buf.String())

	err = buf.WriteByte(' ')
	require.NoError(t, err)
	require.Equal(t, "hello ", buf.String())

	n, err = buf.WriteString("world")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 11, buf.Len())
	require.Equal(t, "hello world", buf.String())
	require.True(t, pool.Owns(bufferData(buf)))
}

func TestArenaBufferReadOperations(t *testing.T) {
	pool := NewSegregatedPool(4096)
	buf := NewArenaBuffer(pool)

	_, err := buf.Write([]byte("hello world"))
	require.NoError(t, err)

	p := make([]byte, 5)
	n, err := buf.Read(p)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), p)
	require.Equal(t, " world", buf.String())

	c, err := buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(' '), c)
	require.Equal(t, "world", buf.String())

	p = make([]byte, 10)
	n, err = buf.Read(p)
	require.NoError(t, err)
	require.Equal(t, []byte("world"), p[:n])
	require.Equal(t, 0, buf.Len())

	n, err = buf.Read(p)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 0, n)

	_, err = buf.ReadByte()
	require.Equal(t, io.EOF, err)
}

func TestArenaBufferGrowthReturnsOldBlocks(t *testing.T) {
	pool := NewSegregatedPool(1 << 16)
	buf := NewArenaBuffer(pool)

	_, _ = buf.WriteString("ab")
	first := bufferData(buf)

	for range 100 {
		_, _ = buf.WriteString("abcdefgh")
	}
	require.Equal(t, 802, buf.Len())
	require.NotEqual(t, uintptr(first), uintptr(bufferData(buf)))

	// only the current backing array is live
	stats := pool.Stats()
	var live uint32
	for _, n := range stats.Live {
		live += n
	}
	require.Equal(t, uint32(1), live)
	require.Equal(t, pool.Len(), int(pool.RawAllocSize(bufferData(buf))))
	require.Positive(t, stats.Free[ClassSmall])
}

func TestArenaBufferBytesResliceAppend(t *testing.T) {
	pool := NewSegregatedPool(1 << 16)
	buf := NewArenaBuffer(pool)
	_, _ = buf.WriteString("hello world")

	var grown []byte
	require.NotPanics(t, func() {
		grown = SliceAppend(pool, buf.Bytes()[1:], bytes.Repeat([]byte{'!'}, 64)...)
	})
	require.Equal(t, "ello world"+strings.Repeat("!", 64), string(grown))

	// the buffer still owns its block
	require.Equal(t, "hello world", buf.String())
	require.True(t, pool.IsBlockStart(bufferData(buf)))
	_, _ = buf.WriteString("!")
	require.Equal(t, "hello world!", buf.String())
}

func TestArenaBufferGrow(t *testing.T) {
	pool := NewSegregatedPool(4096)
	buf := NewArenaBuffer(pool)

	buf.Grow(100)
	require.GreaterOrEqual(t, buf.Cap(), 100)
	require.Equal(t, 0, buf.Len())
	data := bufferData(buf)

	_, _ = buf.WriteString(strings.Repeat("x", 100))
	require.Equal(t, uintptr(data), uintptr(bufferData(buf)))

	buf.Grow(0)
	buf.Grow(-1)
	require.Equal(t, 100, buf.Len())
}

func TestArenaBufferResetAndTruncate(t *testing.T) {
	pool := NewSegregatedPool(4096)
	buf := NewArenaBuffer(pool)

	_, _ = buf.WriteString("hello world")
	buf.Truncate(5)
	require.Equal(t, "hello", buf.String())

	require.PanicsWithValue(t, "arena: truncation out of range", func() { buf.Truncate(6) })
	require.PanicsWithValue(t, "arena: truncation out of range", func() { buf.Truncate(-1) })

	capBefore := buf.Cap()
	buf.Reset()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, capBefore, buf.Cap())

	_, _ = buf.WriteString("new data")
	require.Equal(t, "new data", buf.String())
}

func TestArenaBufferRelease(t *testing.T) {
	pool := NewSegregatedPool(1 << 16)
	buf := NewArenaBuffer(pool)

	_, _ = buf.WriteString("hello world")
	_, err := buf.ReadFrom(strings.NewReader("!"))
	require.NoError(t, err)
	require.Positive(t, pool.Len())

	buf.Release()
	require.Equal(t, 0, pool.Len())
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, buf.Cap())

	_, _ = buf.WriteString("again")
	require.Equal(t, "again", buf.String())
}

func TestArenaBufferWriteTo(t *testing.T) {
	pool := NewSegregatedPool(4096)
	buf := NewArenaBuffer(pool)
	_, _ = buf.WriteString("hello world")

	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(11), n)
	require.Equal(t, "hello world", out.String())
	require.Equal(t, 0, buf.Len())

	n, err = buf.WriteTo(&out)
	require.NoError(t, err)
	require.Zero(t, n)
}

type shortWriter struct {
	limit int
	out   bytes.Buffer
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		w.out.Write(p[:w.limit])
		return w.limit, io.ErrShortWrite
	}
	return w.out.Write(p)
}

func TestArenaBufferWriteToPartial(t *testing.T) {
	buf := NewArenaBuffer(NewSegregatedPool(4096))
	_, _ = buf.WriteString("hello world")

	w := &shortWriter{limit: 6}
	n, err := buf.WriteTo(w)
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Equal(t, int64(6), n)
	require.Equal(t, "world", buf.String())
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestArenaBufferReadFrom(t *testing.T) {
	pool := NewSegregatedPool(1 << 16)
	buf := NewArenaBuffer(pool)

	payload := strings.Repeat("0123456789", 1000)
	n, err := buf.ReadFrom(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), n)
	require.Equal(t, payload, buf.String())
	require.True(t, pool.Owns(unsafe.Pointer(unsafe.SliceData(buf.readBuf))))

	boom := errors.New("boom")
	buf.Reset()
	n, err = buf.ReadFrom(&failingReader{data: []byte("abc"), err: boom})
	require.ErrorIs(t, err, boom)
	require.Equal(t, int64(3), n)
	require.Equal(t, "abc", buf.String())
}

func TestArenaBufferNilArena(t *testing.T) {
	buf := NewArenaBuffer(nil)

	_, _ = buf.WriteString("hello")
	_ = buf.WriteByte(' ')
	_, _ = buf.Write([]byte("world"))
	buf.Grow(64)
	require.GreaterOrEqual(t, buf.Cap(), 75)
	require.Equal(t, "hello world", buf.String())

	buf.Release()
	require.Equal(t, 0, buf.Len())
}

func BenchmarkArenaBufferWriteString(b *testing.B) {
	pool := NewSegregatedPool(1 << 20)
	b.ReportAllocs()
	for b.Loop() {
		buf := NewArenaBuffer(pool)
		for range 64 {
			_, _ = buf.WriteString("interpreter")
		}
		buf.Release()
	}
}
