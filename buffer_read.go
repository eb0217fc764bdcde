// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"math"
	"unicode/utf8"
)

// Read implements io.Reader, consuming up to len(p) bytes. It returns
// io.EOF once the Buffer is exhausted, matching the standard library's
// Reader contract (distinct from the fixed-size Read* primitives below,
// which report ErrEOF/RangeError for a short Buffer).
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.byteSize == 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > b.byteSize {
		p = p[:b.byteSize]
	}
	for len(p) > 0 {
		h := b.head
		take := len(p)
		if avail := h.Len(); take > avail {
			take = avail
		}
		copy(p[:take], h.Bytes()[:take])
		h.Advance(take)
		b.byteSize -= int64(take)
		n += take
		p = p[take:]
		if h.Len() == 0 {
			b.popHead()
			b.pool().Recycle(h)
		}
	}
	return n, nil
}

// ReadByte implements io.ByteReader.
func (b *Buffer) ReadByte() (byte, error) {
	if b.byteSize == 0 {
		return 0, ErrEOF
	}
	h := b.head
	c := h.ByteAt(0)
	h.Advance(1)
	b.byteSize--
	if h.Len() == 0 {
		b.popHead()
		b.pool().Recycle(h)
	}
	return c, nil
}

// ReadShort consumes two big-endian bytes.
func (b *Buffer) ReadShort() (int16, error) {
	v, err := readFixed(b, 2)
	return int16(v), err
}

// ReadInt consumes four big-endian bytes.
func (b *Buffer) ReadInt() (int32, error) {
	v, err := readFixed(b, 4)
	return int32(v), err
}

// ReadLong consumes eight big-endian bytes.
func (b *Buffer) ReadLong() (int64, error) {
	v, err := readFixed(b, 8)
	return int64(v), err
}

func readFixed(b *Buffer, width int) (uint64, error) {
	if int64(width) > b.byteSize {
		return 0, ErrEOF
	}
	var v uint64
	for i := 0; i < width; i++ {
		c, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// ReadDecimalLong consumes a base-10 ASCII integer, with an optional
// leading '-'. Returns a FormatError for a malformed or overflowing value.
func (b *Buffer) ReadDecimalLong() (int64, error) {
	if b.byteSize == 0 {
		return 0, ErrEOF
	}
	neg := false
	c, err := b.GetByte(0)
	if err != nil {
		return 0, err
	}
	var consumed int64
	if c == '-' {
		neg = true
		consumed = 1
	}
	if consumed >= b.byteSize {
		_ = b.Skip(consumed)
		return 0, &FormatError{Msg: "ReadDecimalLong: no digits"}
	}

	// Accumulate as a non-positive int64. The negative range holds one more
	// magnitude than the positive range (math.MinInt64's absolute value has
	// no positive int64 counterpart), so accumulating negative lets every
	// valid int64, including math.MinInt64 itself, parse without overflow.
	// cutoff is the last value acc may hold before a multiply by 10 would
	// itself overflow int64.
	const cutoff = math.MinInt64 / 10
	var acc int64
	var digits int64
	var partial []byte
	for consumed < b.byteSize {
		c, _ = b.GetByte(consumed)
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if acc < cutoff {
			return 0, &FormatError{Msg: "ReadDecimalLong: overflow", Partial: string(partial), HasByte: true, Byte: c}
		}
		acc *= 10
		if acc < math.MinInt64+d {
			return 0, &FormatError{Msg: "ReadDecimalLong: overflow", Partial: string(partial), HasByte: true, Byte: c}
		}
		acc -= d
		partial = append(partial, c)
		consumed++
		digits++
	}
	if digits == 0 {
		return 0, &FormatError{Msg: "ReadDecimalLong: no digits", HasByte: true, Byte: c}
	}
	_ = b.Skip(consumed)
	if neg {
		return acc, nil
	}
	if acc == math.MinInt64 {
		last := len(partial) - 1
		return 0, &FormatError{Msg: "ReadDecimalLong: overflow", Partial: string(partial[:last]), HasByte: true, Byte: partial[last]}
	}
	return -acc, nil
}

// ReadHexadecimalUnsignedLong consumes a lowercase or uppercase hexadecimal
// integer with no "0x" prefix. Returns a FormatError for a malformed or
// overflowing value.
func (b *Buffer) ReadHexadecimalUnsignedLong() (uint64, error) {
	if b.byteSize == 0 {
		return 0, ErrEOF
	}
	var v uint64
	var consumed, digits int64
	var partial []byte
	for consumed < b.byteSize {
		c, _ := b.GetByte(consumed)
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			goto done
		}
		if v>>60 != 0 {
			return 0, &FormatError{Msg: "ReadHexadecimalUnsignedLong: overflow", Partial: string(partial), HasByte: true, Byte: c}
		}
		v = v<<4 | d
		partial = append(partial, c)
		consumed++
		digits++
	}
done:
	if digits == 0 {
		return 0, &FormatError{Msg: "ReadHexadecimalUnsignedLong: no digits"}
	}
	_ = b.Skip(consumed)
	return v, nil
}

// ReadUTF8CodePoint consumes one UTF-8 encoded rune. Returns
// utf8.RuneError for an invalid or incomplete encoding without consuming
// more than one byte of it.
func (b *Buffer) ReadUTF8CodePoint() (rune, error) {
	if b.byteSize == 0 {
		return 0, ErrEOF
	}
	b.aggregatedHead(utf8.UTFMax)
	r, n := utf8.DecodeRune(b.head.Bytes())
	if err := b.Skip(int64(n)); err != nil {
		return 0, err
	}
	return r, nil
}

// ReadLine consumes and returns the next line, stripping a trailing "\n"
// or "\r\n". If the Buffer is exhausted before any terminator is found,
// ReadLine returns whatever bytes remain (possibly none) with no error,
// and the Buffer ends empty. Use ReadLineStrict to require a terminator.
func (b *Buffer) ReadLine() (string, error) {
	idx, err := b.IndexOfByte('\n', 0, b.byteSize)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		data, err := b.ReadByteString(b.byteSize)
		if err != nil {
			return "", err
		}
		return data.String(), nil
	}
	return b.readLineUpTo(idx)
}

// ReadLineStrict consumes and returns the next line, stripping a trailing
// "\n" or "\r\n". It returns ErrEOF if no line terminator is found before
// the Buffer is exhausted, leaving the Buffer's contents untouched.
func (b *Buffer) ReadLineStrict() (string, error) {
	idx, err := b.IndexOfByte('\n', 0, b.byteSize)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", ErrEOF
	}
	return b.readLineUpTo(idx)
}

func (b *Buffer) readLineUpTo(newlineIdx int64) (string, error) {
	lineLen := newlineIdx
	if newlineIdx > 0 {
		if c, err := b.GetByte(newlineIdx - 1); err == nil && c == '\r' {
			lineLen = newlineIdx - 1
		}
	}
	bs, err := b.ReadByteString(lineLen)
	if err != nil {
		return "", err
	}
	if err := b.Skip(newlineIdx - lineLen + 1); err != nil {
		return "", err
	}
	return bs.String(), nil
}
