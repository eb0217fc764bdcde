// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "unicode/utf8"

// Write implements io.Writer, appending a copy of p to the Buffer.
func (b *Buffer) Write(p []byte) (n int, err error) {
	total := len(p)
	for len(p) > 0 {
		tail := b.writableTail(1)
		free := tail.WritableLen()
		take := len(p)
		if take > free {
			take = free
		}
		copy(tail.WriteView(take), p[:take])
		tail.CommitWrite(take)
		p = p[take:]
		b.byteSize += int64(take)
	}
	return total, nil
}

// WriteString implements io.StringWriter.
func (b *Buffer) WriteString(s string) (n int, err error) {
	return b.Write([]byte(s))
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	tail := b.writableTail(1)
	tail.WriteView(1)[0] = c
	tail.CommitWrite(1)
	b.byteSize++
	return nil
}

// WriteShort appends v as two big-endian bytes.
func (b *Buffer) WriteShort(v int16) error {
	return writeFixed(b, uint64(uint16(v)), 2)
}

// WriteInt appends v as four big-endian bytes.
func (b *Buffer) WriteInt(v int32) error {
	return writeFixed(b, uint64(uint32(v)), 4)
}

// WriteLong appends v as eight big-endian bytes.
func (b *Buffer) WriteLong(v int64) error {
	return writeFixed(b, uint64(v), 8)
}

func writeFixed(b *Buffer, v uint64, width int) error {
	tail := b.writableTail(width)
	if tail.WritableLen() < width {
		// Spans a segment boundary; fall back to byte-at-a-time writes.
		for i := width - 1; i >= 0; i-- {
			if err := b.WriteByte(byte(v >> (8 * uint(i)))); err != nil {
				return err
			}
		}
		return nil
	}
	view := tail.WriteView(width)
	for i := 0; i < width; i++ {
		view[i] = byte(v >> (8 * uint(width-1-i)))
	}
	tail.CommitWrite(width)
	b.byteSize += int64(width)
	return nil
}

// WriteDecimalLong appends v formatted as a base-10 ASCII integer, with a
// leading '-' for negative values.
func (b *Buffer) WriteDecimalLong(v int64) error {
	var buf [20]byte
	i := len(buf)
	neg := v < 0
	uv := uint64(v)
	if neg {
		uv = uint64(-v)
	}
	if uv == 0 {
		i--
		buf[i] = '0'
	}
	for uv > 0 {
		i--
		buf[i] = byte('0' + uv%10)
		uv /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	_, err := b.Write(buf[i:])
	return err
}

// WriteHexadecimalUnsignedLong appends v formatted as lowercase hexadecimal,
// without a leading "0x" and without leading zeros (except the value 0,
// which writes a single '0').
func (b *Buffer) WriteHexadecimalUnsignedLong(v uint64) error {
	const digits = "0123456789abcdef"
	var buf [16]byte
	i := len(buf)
	if v == 0 {
		i--
		buf[i] = '0'
	}
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	_, err := b.Write(buf[i:])
	return err
}

// WriteUTF8CodePoint appends the UTF-8 encoding of cp. A surrogate half
// (0xD800..0xDFFF) is not valid UTF-8 on its own and is written as a
// literal '?' instead. A value above utf8.MaxRune (0x10FFFF) cannot be
// encoded at all and is rejected with a FormatError; nothing is written.
func (b *Buffer) WriteUTF8CodePoint(cp rune) (int, error) {
	if cp >= 0xD800 && cp <= 0xDFFF {
		return b.Write([]byte{'?'})
	}
	if cp > utf8.MaxRune {
		return 0, &FormatError{Msg: "WriteUTF8CodePoint: code point out of range"}
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], cp)
	return b.Write(buf[:n])
}
