// SPDX-License-Identifier: Apache-2.0

package strpool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16Encoding reads and writes UTF-16 in the byte order of the host, matching
// the in-memory layout of []uint16.
var utf16Encoding encoding.Encoding = unicode.UTF16(nativeEndianness(), unicode.IgnoreBOM)

func nativeEndianness() unicode.Endianness {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return unicode.LittleEndian
	}
	return unicode.BigEndian
}

// Text is a narrow or wide string operand. Named slice types are accepted.
type Text interface {
	~[]byte | ~[]uint16
}

// Convert returns the narrow form of w. Unpaired surrogates become U+FFFD.
// FreeFirst releases w.
func (p *Pool) Convert(w []uint16, flags Flags) []byte {
	buf := p.decode(w)
	p.releaseOperands(flags, dataPtr(w), nil, nil)
	return buf
}

// ConvertWide returns the wide form of s. Invalid UTF-8 sequences become U+FFFD.
// FreeFirst releases s.
func (p *Pool) ConvertWide(s []byte, flags Flags) []uint16 {
	buf := p.encode(s)
	p.releaseOperands(flags, dataPtr(s), nil, nil)
	return buf
}

func (p *Pool) decode(w []uint16) []byte {
	src := unitBytes(w)
	if buf, ok := p.tryDecode(src, narrowLen(w)); ok {
		return buf
	}
	// every unit expands to at most three bytes
	buf, ok := p.tryDecode(src, 3*len(w))
	if !ok {
		panic(fmt.Errorf("strpool: convert %d units to narrow", len(w)))
	}
	return buf
}

func (p *Pool) tryDecode(src []byte, n int) ([]byte, bool) {
	buf := p.narrow(n)
	p.dec.Reset()
	nDst, _, err := p.dec.Transform(buf, src, true)
	if err != nil {
		p.Free(buf)
		if errors.Is(err, transform.ErrShortDst) {
			return nil, false
		}
		panic(fmt.Errorf("strpool: convert to narrow: %w", err))
	}
	buf = buf[:nDst+1]
	buf[nDst] = 0
	return buf[:nDst], true
}

func (p *Pool) encode(s []byte) []uint16 {
	if buf, ok := p.tryEncode(s, wideLen(s)); ok {
		return buf
	}
	// every byte expands to at most one unit
	buf, ok := p.tryEncode(s, len(s))
	if !ok {
		panic(fmt.Errorf("strpool: convert %d bytes to wide", len(s)))
	}
	return buf
}

func (p *Pool) tryEncode(s []byte, n int) ([]uint16, bool) {
	buf := p.wide(n)
	p.enc.Reset()
	nDst, _, err := p.enc.Transform(unitBytes(buf), s, true)
	if err != nil {
		p.FreeWide(buf)
		if errors.Is(err, transform.ErrShortDst) {
			return nil, false
		}
		panic(fmt.Errorf("strpool: convert to wide: %w", err))
	}
	units := nDst / 2
	buf = buf[:units+1]
	buf[units] = 0
	return buf[:units], true
}

// narrowLen returns the UTF-8 length of w.
func narrowLen(w []uint16) int {
	n := 0
	for i := 0; i < len(w); i++ {
		r := rune(w[i])
		if utf16.IsSurrogate(r) && i+1 < len(w) {
			if dec := utf16.DecodeRune(r, rune(w[i+1])); dec != utf8.RuneError {
				n += utf8.RuneLen(dec)
				i++
				continue
			}
		}
		if utf16.IsSurrogate(r) {
			r = utf8.RuneError
		}
		n += utf8.RuneLen(r)
	}
	return n
}

// wideLen returns the UTF-16 length of s.
func wideLen(s []byte) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRune(s)
		n += utf16.RuneLen(r)
		s = s[size:]
	}
	return n
}

// unitBytes views a UTF-16 slice as its underlying bytes.
func unitBytes(w []uint16) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(w))), 2*len(w))
}

// Concat joins operands of either encoding into a narrow string. Wide operands
// are converted through temporaries that are released before returning; flags
// apply to the operands as passed.
func Concat[F, S, J Text](p *Pool, first F, second S, joiner J, flags Flags) []byte {
	var temps [3][]byte
	f := p.narrowOperand(first, &temps[0])
	s := p.narrowOperand(second, &temps[1])
	j := p.narrowOperand(joiner, &temps[2])

	buf := p.Concatenate(f, s, j, 0)
	for _, tmp := range temps {
		if tmp != nil {
			p.Free(tmp)
		}
	}
	p.releaseOperands(flags, textPtr(first), textPtr(second), textPtr(joiner))
	return buf
}

// ConcatWide joins operands of either encoding into a wide string.
func ConcatWide[F, S, J Text](p *Pool, first F, second S, joiner J, flags Flags) []uint16 {
	var temps [3][]uint16
	f := p.wideOperand(first, &temps[0])
	s := p.wideOperand(second, &temps[1])
	j := p.wideOperand(joiner, &temps[2])

	buf := p.ConcatenateWide(f, s, j, 0)
	for _, tmp := range temps {
		if tmp != nil {
			p.FreeWide(tmp)
		}
	}
	p.releaseOperands(flags, textPtr(first), textPtr(second), textPtr(joiner))
	return buf
}

// textOf splits an operand into its narrow or wide form.
func textOf(t any) (narrow []byte, wide []uint16, isWide bool) {
	switch v := t.(type) {
	case []byte:
		return v, nil, false
	case []uint16:
		return nil, v, true
	}
	v := reflect.ValueOf(t)
	if v.Type().Elem().Kind() == reflect.Uint16 {
		return nil, v.Convert(reflect.TypeFor[[]uint16]()).Interface().([]uint16), true
	}
	return v.Bytes(), nil, false
}

func (p *Pool) narrowOperand(t any, tmp *[]byte) []byte {
	n, w, isWide := textOf(t)
	if !isWide {
		return n
	}
	if w == nil {
		return nil
	}
	*tmp = p.Convert(w, 0)
	return *tmp
}

func (p *Pool) wideOperand(t any, tmp *[]uint16) []uint16 {
	n, w, isWide := textOf(t)
	if isWide {
		return w
	}
	if n == nil {
		return nil
	}
	*tmp = p.ConvertWide(n, 0)
	return *tmp
}

func textPtr(t any) unsafe.Pointer {
	n, w, isWide := textOf(t)
	if isWide {
		return dataPtr(w)
	}
	return dataPtr(n)
}
