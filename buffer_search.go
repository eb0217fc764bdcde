// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// IndexOfByte returns the first offset of target within [start, end), or -1
// if absent.
func (b *Buffer) IndexOfByte(target byte, start, end int64) (int64, error) {
	if start < 0 {
		start = 0
	}
	if end > b.byteSize {
		end = b.byteSize
	}
	if start >= end {
		return -1, nil
	}
	seg, segOffset, err := b.seek(start)
	if err != nil {
		return -1, err
	}
	pos := start
	for pos < end {
		localOff := int(pos - segOffset)
		data := seg.Bytes()
		limit := len(data)
		if segOffset+int64(limit) > end {
			limit = int(end - segOffset)
		}
		for i := localOff; i < limit; i++ {
			if data[i] == target {
				return segOffset + int64(i), nil
			}
		}
		segOffset += int64(seg.Len())
		pos = segOffset
		seg = seg.next
	}
	return -1, nil
}

// IndexOfElement returns the first offset at or after start holding any
// byte present in targets, or -1 if none is found.
func (b *Buffer) IndexOfElement(targets ByteString, start int64) (int64, error) {
	end := b.byteSize
	if start < 0 || start > end {
		return -1, &RangeError{Op: "IndexOfElement", Offset: start, Len: end}
	}
	if start == end {
		return -1, nil
	}
	seg, segOffset, err := b.seek(start)
	if err != nil {
		return -1, err
	}
	two := targets.Len() == 2
	var t0, t1 byte
	if two {
		t0, t1 = targets.At(0), targets.At(1)
	}
	pos := start
	for pos < end {
		localOff := int(pos - segOffset)
		data := seg.Bytes()
		limit := len(data)
		if segOffset+int64(limit) > end {
			limit = int(end - segOffset)
		}
		for i := localOff; i < limit; i++ {
			c := data[i]
			if two {
				if c == t0 || c == t1 {
					return segOffset + int64(i), nil
				}
				continue
			}
			for j := 0; j < targets.Len(); j++ {
				if c == targets.At(j) {
					return segOffset + int64(i), nil
				}
			}
		}
		segOffset += int64(seg.Len())
		pos = segOffset
		seg = seg.next
	}
	return -1, nil
}

// IndexOf returns the first offset at or after start where needle occurs,
// or -1 if it does not occur before end.
func (b *Buffer) IndexOf(needle ByteString, start, end int64) (int64, error) {
	if needle.Len() == 0 {
		return start, nil
	}
	first := needle.At(0)
	for {
		idx, err := b.IndexOfByte(first, start, end)
		if err != nil || idx < 0 {
			return idx, err
		}
		if idx+int64(needle.Len()) > end {
			return -1, nil
		}
		ok, err := b.RangeEquals(idx, needle, 0, needle.Len())
		if err != nil {
			return -1, err
		}
		if ok {
			return idx, nil
		}
		start = idx + 1
	}
}

// RangeEquals reports whether the count bytes at offset equal the count
// bytes of other at otherOffset, without consuming anything.
func (b *Buffer) RangeEquals(offset int64, other ByteString, otherOffset, count int) (bool, error) {
	if offset < 0 || int64(count)+offset > b.byteSize || otherOffset < 0 || otherOffset+count > other.Len() {
		return false, &RangeError{Op: "RangeEquals", Offset: offset, Len: b.byteSize}
	}
	if count == 0 {
		return true, nil
	}
	seg, segOffset, err := b.seek(offset)
	if err != nil {
		return false, err
	}
	pos := offset
	oi := otherOffset
	remaining := count
	for remaining > 0 {
		localOff := int(pos - segOffset)
		data := seg.Bytes()
		avail := len(data) - localOff
		take := remaining
		if take > avail {
			take = avail
		}
		for i := 0; i < take; i++ {
			if data[localOff+i] != other.At(oi+i) {
				return false, nil
			}
		}
		remaining -= take
		pos += int64(take)
		oi += take
		segOffset += int64(seg.Len())
		seg = seg.next
	}
	return true, nil
}
