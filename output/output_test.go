// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	arena "github.com/wundergraph/binder-arena"
)

func TestBufferedSinglePrint(t *testing.T) {
	sink := NewBuffered(arena.NewSegregatedPool(4096))
	sink.Print("hello world!")
	require.Equal(t, "hello world!", sink.String())
}

func TestBufferedMultiPrint(t *testing.T) {
	pool := arena.NewSegregatedPool(4096)
	sink := NewBuffered(pool)

	sink.Print("hello")
	sink.Print(" world! !")
	require.Equal(t, "hello world! !", sink.String())
	require.Positive(t, pool.Len())

	sink.Flush()
	require.Empty(t, sink.Bytes())

	sink.Print("again")
	require.Equal(t, "again", sink.String())

	sink.Release()
	require.Equal(t, 0, pool.Len())
}

func TestBufferedWriteTo(t *testing.T) {
	sink := NewBuffered(nil)
	sink.Print("line\n")

	var out bytes.Buffer
	n, err := sink.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "line\n", out.String())
	require.Empty(t, sink.String())
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	c := NewConsole(w)

	c.Print("hello")
	c.Print(" world")
	require.Empty(t, out.String())

	c.Flush()
	require.NoError(t, c.Err())
	require.Equal(t, "hello world", out.String())
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write([]byte) (int, error) {
	f.calls++
	return 0, errors.New("closed")
}

func TestConsoleStopsAfterError(t *testing.T) {
	w := &failingWriter{}
	c := NewConsole(w)

	c.Print("a")
	c.Print("b")
	require.EqualError(t, c.Err(), "closed")
	require.Equal(t, 1, w.calls)
}

func TestPrintfUsesCallerScratch(t *testing.T) {
	pool := arena.NewSegregatedPool(4096)
	sink := NewBuffered(pool)
	scratch := arena.NewArenaBuffer(pool)

	Printf(sink, scratch, "Undefined variable '%s'.", "x")
	Printf(sink, scratch, " %g", 1.5)
	require.Equal(t, "Undefined variable 'x'. 1.5", sink.String())
	require.Equal(t, " 1.5", scratch.String())

	// a second scratch does not disturb the first
	other := arena.NewArenaBuffer(pool)
	Printf(NewBuffered(nil), other, "%d", 7)
	require.Equal(t, " 1.5", scratch.String())
}
