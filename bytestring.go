// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "sync"

// ByteString is an immutable sequence of bytes. FlatByteString and
// SegmentedByteString are its two implementations: FlatByteString owns a
// single copied array, SegmentedByteString shares zero-copy views over one
// or more Segments (§4.4).
type ByteString interface {
	// Len returns the number of bytes in the sequence.
	Len() int
	// At returns the byte at logical offset i, panicking if i is out of
	// range.
	At(i int) byte
	// ToByteArray returns a fresh copy of the sequence's bytes.
	ToByteArray() []byte
	// Substring returns the ByteString covering [start, end).
	Substring(start, end int) ByteString
	// StartsWith reports whether the sequence begins with prefix.
	StartsWith(prefix ByteString) bool
	// EndsWith reports whether the sequence ends with suffix.
	EndsWith(suffix ByteString) bool
	// IndexOf returns the first offset at or after start where sub occurs,
	// or -1.
	IndexOf(sub ByteString, start int) int
	// LastIndexOf returns the last offset where sub occurs, or -1.
	LastIndexOf(sub ByteString) int
	// RangeEquals reports whether the count bytes at offset equal the
	// count bytes of other at otherOffset.
	RangeEquals(offset int, other ByteString, otherOffset, count int) bool
	// CompareTo orders two ByteStrings lexicographically by unsigned byte
	// value, shorter-is-smaller on a common prefix.
	CompareTo(other ByteString) int
	// Equal reports byte-for-byte equality.
	Equal(other ByteString) bool
	// HashCode returns a cached 32-bit hash of the sequence's bytes.
	HashCode() uint32
	// String returns the sequence's bytes as a Go string. Invalid UTF-8 is
	// kept byte for byte; it is not replaced with utf8.RuneError.
	String() string
	// Write appends the sequence's bytes to dst.
	Write(dst *Buffer) (int, error)
}

// FlatByteString is a ByteString backed by a single owned, immutable byte
// array.
type FlatByteString struct {
	data     []byte
	hashOnce sync.Once
	hash     uint32
}

// NewByteString returns a FlatByteString holding a defensive copy of data.
func NewByteString(data []byte) *FlatByteString {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &FlatByteString{data: cp}
}

// NewByteStringFromString returns a FlatByteString holding the UTF-8 bytes
// of s.
func NewByteStringFromString(s string) *FlatByteString {
	return NewByteString([]byte(s))
}

func (f *FlatByteString) Len() int { return len(f.data) }

func (f *FlatByteString) At(i int) byte { return f.data[i] }

func (f *FlatByteString) ToByteArray() []byte {
	cp := make([]byte, len(f.data))
	copy(cp, f.data)
	return cp
}

func (f *FlatByteString) Substring(start, end int) ByteString {
	if start < 0 || end > len(f.data) || start > end {
		panic(&RangeError{Op: "Substring", Offset: int64(start), Len: int64(len(f.data))})
	}
	return NewByteString(f.data[start:end])
}

func (f *FlatByteString) StartsWith(prefix ByteString) bool {
	if prefix.Len() > f.Len() {
		return false
	}
	return f.RangeEquals(0, prefix, 0, prefix.Len())
}

func (f *FlatByteString) EndsWith(suffix ByteString) bool {
	if suffix.Len() > f.Len() {
		return false
	}
	return f.RangeEquals(f.Len()-suffix.Len(), suffix, 0, suffix.Len())
}

func (f *FlatByteString) IndexOf(sub ByteString, start int) int {
	return genericIndexOf(f, sub, start)
}

func (f *FlatByteString) LastIndexOf(sub ByteString) int {
	return genericLastIndexOf(f, sub)
}

func (f *FlatByteString) RangeEquals(offset int, other ByteString, otherOffset, count int) bool {
	return genericRangeEquals(f, offset, other, otherOffset, count)
}

func (f *FlatByteString) CompareTo(other ByteString) int {
	return genericCompare(f, other)
}

func (f *FlatByteString) Equal(other ByteString) bool {
	return f.Len() == other.Len() && f.CompareTo(other) == 0
}

func (f *FlatByteString) HashCode() uint32 {
	f.hashOnce.Do(func() {
		f.hash = byteHash(f.data)
	})
	return f.hash
}

func (f *FlatByteString) String() string { return string(f.data) }

func (f *FlatByteString) Write(dst *Buffer) (int, error) { return dst.Write(f.data) }

func byteHash(data []byte) uint32 {
	var h uint32
	for _, c := range data {
		h = h*31 + uint32(c)
	}
	return h
}

// genericIndexOf, genericLastIndexOf, genericRangeEquals, and
// genericCompare implement ByteString's shared search/compare contract in
// terms of Len/At alone, so both FlatByteString and SegmentedByteString get
// identical semantics from one place.

func genericIndexOf(s ByteString, sub ByteString, start int) int {
	if sub.Len() == 0 {
		if start < 0 {
			start = 0
		}
		return start
	}
	if start < 0 {
		start = 0
	}
	last := s.Len() - sub.Len()
	for i := start; i <= last; i++ {
		if s.RangeEquals(i, sub, 0, sub.Len()) {
			return i
		}
	}
	return -1
}

func genericLastIndexOf(s ByteString, sub ByteString) int {
	if sub.Len() == 0 {
		return s.Len()
	}
	for i := s.Len() - sub.Len(); i >= 0; i-- {
		if s.RangeEquals(i, sub, 0, sub.Len()) {
			return i
		}
	}
	return -1
}

func genericRangeEquals(s ByteString, offset int, other ByteString, otherOffset, count int) bool {
	if offset < 0 || offset+count > s.Len() || otherOffset < 0 || otherOffset+count > other.Len() {
		return false
	}
	for i := 0; i < count; i++ {
		if s.At(offset+i) != other.At(otherOffset+i) {
			return false
		}
	}
	return true
}

func genericCompare(a, b ByteString) int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		ai, bi := a.At(i), b.At(i)
		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	}
	switch {
	case a.Len() < b.Len():
		return -1
	case a.Len() > b.Len():
		return 1
	default:
		return 0
	}
}
