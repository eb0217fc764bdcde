// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "io"

// splitHead detaches a byteCount-byte prefix from seg, advancing seg.pos
// past it, and returns the prefix as an independent Segment. Prefixes at
// least ShareMinimum bytes share seg's backing array (zero-copy); smaller
// prefixes are copied into a fresh pool Segment, since the bookkeeping cost
// of a shared view outweighs a small copy (§4.3.3).
func splitHead(pool *SegmentPool, seg *Segment, byteCount int) *Segment {
	if byteCount >= ShareMinimum {
		prefix := seg.SharedCopy()
		prefix.limit = prefix.pos + int32(byteCount)
		seg.Advance(byteCount)
		return prefix
	}
	prefix := pool.Take()
	n := copy(prefix.data[:byteCount], seg.data[seg.pos:int(seg.pos)+byteCount])
	prefix.limit = int32(n)
	seg.Advance(byteCount)
	return prefix
}

// WriteFrom moves byteCount bytes from src into dst, splicing whole
// Segments across buffers instead of copying bytes wherever possible
// (§4.3.3). src and dst must not be the same Buffer.
func (dst *Buffer) WriteFrom(src *Buffer, byteCount int64) error {
	if src == dst {
		panicState("WriteFrom: src and dst are the same Buffer")
	}
	if byteCount < 0 || byteCount > src.byteSize {
		return &RangeError{Op: "WriteFrom", Offset: byteCount, Len: src.byteSize}
	}
	remaining := byteCount
	for remaining > 0 {
		srcHead := src.head
		avail := int64(srcHead.Len())
		if remaining < avail {
			tail := dst.Tail()
			if tail != nil && tail != srcHead && tail.owner && !tail.Shared() && tail.compactableInto(int(remaining)) {
				srcHead.WriteTo(tail, int(remaining))
				dst.byteSize += remaining
				src.byteSize -= remaining
				remaining = 0
				continue
			}
			prefix := splitHead(src.pool(), srcHead, int(remaining))
			src.byteSize -= remaining
			dst.appendSegment(prefix)
			dst.byteSize += remaining
			remaining = 0
			continue
		}
		src.popHead()
		src.byteSize -= avail
		dst.appendSegment(srcHead)
		dst.byteSize += avail
		remaining -= avail
	}
	return nil
}

// CopyTo writes count bytes starting at offset to w, without consuming
// them from the Buffer.
func (b *Buffer) CopyTo(w io.Writer, offset, count int64) (int64, error) {
	if offset < 0 || count < 0 || offset+count > b.byteSize {
		return 0, &RangeError{Op: "CopyTo", Offset: offset, Len: b.byteSize}
	}
	if count == 0 {
		return 0, nil
	}
	seg, segOffset, err := b.seek(offset)
	if err != nil {
		return 0, err
	}
	var written int64
	pos := offset
	for written < count {
		localOff := int(pos - segOffset)
		avail := seg.Len() - localOff
		take := int(count - written)
		if take > avail {
			take = avail
		}
		n, err := w.Write(seg.Bytes()[localOff : localOff+take])
		written += int64(n)
		if err != nil {
			return written, err
		}
		pos += int64(take)
		segOffset += int64(seg.Len())
		seg = seg.next
	}
	return written, nil
}

// CopyToBuffer shares count bytes starting at offset into dst without
// consuming them from b. The shared Segments keep b's backing arrays alive
// until dst drains or discards its copies.
func (b *Buffer) CopyToBuffer(dst *Buffer, offset, count int64) error {
	if offset < 0 || count < 0 || offset+count > b.byteSize {
		return &RangeError{Op: "CopyToBuffer", Offset: offset, Len: b.byteSize}
	}
	if count == 0 {
		return nil
	}
	seg, segOffset, err := b.seek(offset)
	if err != nil {
		return err
	}
	pos := offset
	end := offset + count
	for pos < end {
		localOff := int(pos - segOffset)
		avail := seg.Len() - localOff
		take := int(end - pos)
		if take > avail {
			take = avail
		}
		cp := seg.SharedCopy()
		cp.pos = seg.pos + int32(localOff)
		cp.limit = cp.pos + int32(take)
		dst.appendSegment(cp)
		dst.byteSize += int64(take)
		pos += int64(take)
		segOffset += int64(seg.Len())
		seg = seg.next
	}
	return nil
}

// Snapshot returns an immutable ByteString over the Buffer's entire
// current contents without consuming them.
func (b *Buffer) Snapshot() ByteString {
	bs, _ := b.SnapshotN(b.byteSize)
	return bs
}

// SnapshotN returns an immutable ByteString over the first n bytes without
// consuming them (testable property: snapshot stability, §8).
func (b *Buffer) SnapshotN(n int64) (ByteString, error) {
	if n < 0 || n > b.byteSize {
		return nil, &RangeError{Op: "SnapshotN", Offset: n, Len: b.byteSize}
	}
	if n == 0 {
		return NewByteString(nil), nil
	}
	if n < SegmentingThreshold {
		data := make([]byte, n)
		var off int64
		s := b.head
		for off < n {
			take := n - off
			if avail := int64(s.Len()); take > avail {
				take = avail
			}
			copy(data[off:off+take], s.Bytes()[:take])
			off += take
			s = s.next
		}
		return NewByteString(data), nil
	}
	var segs []*Segment
	var dir []int64
	var cum int64
	s := b.head
	for cum < n {
		avail := int64(s.Len())
		need := n - cum
		cp := s.SharedCopy()
		if need < avail {
			cp.limit = cp.pos + int32(need)
			cum += need
		} else {
			cum += avail
		}
		dir = append(dir, cum)
		segs = append(segs, cp)
		s = s.next
	}
	return newSegmentedByteString(segs, dir, b.pool()), nil
}

// ReadByteString consumes and returns the next n bytes as an immutable
// ByteString. Below SegmentingThreshold, it returns a flat, copied
// ByteString; at or above it, it returns a zero-copy SegmentedByteString
// sharing this Buffer's Segments.
func (b *Buffer) ReadByteString(n int64) (ByteString, error) {
	if n < 0 || n > b.byteSize {
		return nil, &RangeError{Op: "ReadByteString", Offset: n, Len: b.byteSize}
	}
	if n == 0 {
		return NewByteString(nil), nil
	}
	if n < SegmentingThreshold {
		return NewByteString(b.readFlatBytes(n)), nil
	}
	segs, dir := b.readSharedSegments(n)
	return newSegmentedByteString(segs, dir, b.pool()), nil
}

func (b *Buffer) readFlatBytes(n int64) []byte {
	data := make([]byte, n)
	var off int64
	for off < n {
		h := b.head
		take := n - off
		if avail := int64(h.Len()); take > avail {
			take = avail
		}
		copy(data[off:off+take], h.Bytes()[:take])
		h.Advance(int(take))
		b.byteSize -= take
		off += take
		if h.Len() == 0 {
			b.popHead()
			b.pool().Recycle(h)
		}
	}
	return data
}

func (b *Buffer) readSharedSegments(n int64) ([]*Segment, []int64) {
	var segs []*Segment
	var dir []int64
	var cum int64
	for cum < n {
		h := b.head
		avail := int64(h.Len())
		need := n - cum
		if need >= avail {
			cp := h.SharedCopy()
			segs = append(segs, cp)
			cum += avail
			dir = append(dir, cum)
			b.popHead()
			b.byteSize -= avail
			b.pool().Recycle(h)
		} else {
			cp := h.SharedCopy()
			cp.limit = cp.pos + int32(need)
			segs = append(segs, cp)
			cum += need
			dir = append(dir, cum)
			h.Advance(int(need))
			b.byteSize -= need
		}
	}
	return segs, dir
}

// IoVecs returns up to maxCount IoVec descriptors pointing directly at the
// readable regions of the Buffer's head Segments, for vectored I/O
// (readv/writev, io_uring) without copying.
func (b *Buffer) IoVecs(maxCount int) []IoVec {
	if b.head == nil || maxCount <= 0 {
		return nil
	}
	vec := make([]IoVec, 0, maxCount)
	s := b.head
	for i := 0; i < maxCount; i++ {
		bs := s.Bytes()
		if len(bs) > 0 {
			vec = append(vec, IoVec{Base: &bs[0], Len: uint64(len(bs))})
		}
		s = s.next
		if s == b.head {
			break
		}
	}
	return vec
}

// NetBuffers returns up to maxCount of the Buffer's readable head Segments
// as a Buffers (net.Buffers), for a RawSink fronting a net.Conn: its WriteTo
// issues a single writev on platforms that support it instead of one Write
// call per Segment. Like IoVecs, the returned slices alias the Buffer's
// memory and must not be used past the next mutation of the Buffer.
func (b *Buffer) NetBuffers(maxCount int) Buffers {
	if b.head == nil || maxCount <= 0 {
		return nil
	}
	bufs := make(Buffers, 0, maxCount)
	s := b.head
	for i := 0; i < maxCount; i++ {
		if bs := s.Bytes(); len(bs) > 0 {
			bufs = append(bufs, bs)
		}
		s = s.next
		if s == b.head {
			break
		}
	}
	return bufs
}
