// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// Buffer is a doubly-linked circular queue of Segments implementing both a
// mutable byte queue (the Write*/Read* primitives) and an immutable
// snapshot source (Snapshot). Buffer is single-owner: it does not
// synchronize internally; callers sharing a Buffer across goroutines must
// supply external synchronization (Pipe and AsyncReader do so internally;
// BufferedReader and BufferedWriter do not).
//
// The zero value is an empty, usable Buffer backed by DefaultSegmentPool.
type Buffer struct {
	_ noCopy

	head     *Segment
	byteSize int64

	segPool *SegmentPool
}

// SetPool overrides the SegmentPool this Buffer draws from and recycles
// into. It must be called before the Buffer holds any bytes.
func (b *Buffer) SetPool(pool *SegmentPool) {
	if b.head != nil {
		panicState("SetPool called on a non-empty Buffer")
	}
	b.segPool = pool
}

func (b *Buffer) pool() *SegmentPool {
	if b.segPool == nil {
		b.segPool = DefaultSegmentPool()
	}
	return b.segPool
}

// ByteSize returns the total number of unread bytes currently queued.
func (b *Buffer) ByteSize() int64 { return b.byteSize }

// Exhausted reports whether the Buffer currently holds no bytes.
func (b *Buffer) Exhausted() bool { return b.byteSize == 0 }

// Tail returns the current tail Segment, or nil if the Buffer is empty.
func (b *Buffer) Tail() *Segment {
	if b.head == nil {
		return nil
	}
	return b.head.prev
}

// pushTail appends seg as the new tail of the circular segment list.
func (b *Buffer) pushTail(seg *Segment) {
	if b.head == nil {
		seg.prev, seg.next = seg, seg
		b.head = seg
		return
	}
	tail := b.head.prev
	tail.next = seg
	seg.prev = tail
	seg.next = b.head
	b.head.prev = seg
}

// unlink removes seg from the circular segment list, wherever it sits.
func (b *Buffer) unlink(seg *Segment) {
	if seg.next == seg {
		b.head = nil
	} else {
		seg.prev.next = seg.next
		seg.next.prev = seg.prev
		if b.head == seg {
			b.head = seg.next
		}
	}
	seg.prev, seg.next = nil, nil
}

// replaceHead swaps old for fresh in the circular list, preserving old's
// position. old is detached (its prev/next cleared) on return.
func (b *Buffer) replaceHead(fresh, old *Segment) {
	if old.next == old {
		fresh.prev, fresh.next = fresh, fresh
	} else {
		old.prev.next = fresh
		old.next.prev = fresh
		fresh.prev, fresh.next = old.prev, old.next
	}
	if b.head == old {
		b.head = fresh
	}
	old.prev, old.next = nil, nil
}

// popHead removes and returns the current head Segment, or nil if empty.
func (b *Buffer) popHead() *Segment {
	h := b.head
	if h == nil {
		return nil
	}
	b.unlink(h)
	return h
}

// appendSegment links seg into the Buffer, compacting it into the current
// tail instead of splicing when the tail has room (§4.3.3's compactable-
// tail test). byteSize bookkeeping is the caller's responsibility.
func (b *Buffer) appendSegment(seg *Segment) {
	tail := b.Tail()
	n := seg.Len()
	if tail != nil && tail != seg && tail.owner && !tail.Shared() && tail.compactableInto(n) {
		seg.WriteTo(tail, n)
		b.pool().Recycle(seg)
		return
	}
	b.pushTail(seg)
}

// writableTail returns a tail Segment with at least minCapacity free
// bytes, reusing the current tail when possible and otherwise drawing a
// fresh Segment from the pool (§4.3.1).
func (b *Buffer) writableTail(minCapacity int) *Segment {
	tail := b.Tail()
	if tail != nil && tail.owner && !tail.Shared() && tail.WritableLen() >= minCapacity {
		return tail
	}
	seg := b.pool().Take()
	b.pushTail(seg)
	return seg
}

// GetByte returns the byte at logical offset pos without consuming it.
func (b *Buffer) GetByte(pos int64) (byte, error) {
	seg, segOffset, err := b.seek(pos)
	if err != nil {
		return 0, err
	}
	return seg.ByteAt(int(pos - segOffset)), nil
}

// seek returns the Segment containing logical offset start along with the
// absolute offset of that Segment's first byte. Traversal starts from
// whichever end (head or tail) is closer to start, since the circular list
// is symmetric (§4.3.6). Requires 0 <= start < ByteSize().
func (b *Buffer) seek(start int64) (*Segment, int64, error) {
	if start < 0 || start >= b.byteSize {
		return nil, 0, &RangeError{Op: "seek", Offset: start, Len: b.byteSize}
	}
	if start < b.byteSize-start {
		s := b.head
		offset := int64(0)
		for {
			n := int64(s.Len())
			if start < offset+n {
				return s, offset, nil
			}
			offset += n
			s = s.next
		}
	}
	s := b.head.prev
	offset := b.byteSize - int64(s.Len())
	for {
		if start >= offset {
			return s, offset, nil
		}
		s = s.prev
		offset -= int64(s.Len())
	}
}

// Skip advances past n bytes without returning them, recycling any
// Segments fully drained in the process.
func (b *Buffer) Skip(n int64) error {
	if n < 0 || n > b.byteSize {
		return &RangeError{Op: "Skip", Offset: n, Len: b.byteSize}
	}
	remaining := n
	for remaining > 0 {
		h := b.head
		avail := int64(h.Len())
		take := remaining
		if take > avail {
			take = avail
		}
		h.Advance(int(take))
		remaining -= take
		b.byteSize -= take
		if h.Len() == 0 {
			b.popHead()
			b.pool().Recycle(h)
		}
	}
	return nil
}

// Clear recycles every Segment currently held, emptying the Buffer.
func (b *Buffer) Clear() {
	for b.head != nil {
		seg := b.popHead()
		b.pool().Recycle(seg)
	}
	b.byteSize = 0
}

// aggregatedHead guarantees the head Segment alone contains at least n
// readable bytes by compacting or merging following Segments into it
// (§4.3.9). Panics if n exceeds the pool's Segment size.
func (b *Buffer) aggregatedHead(n int) {
	if n > b.pool().Size() {
		panicState("aggregatedHead: n exceeds segment size")
	}
	if b.head == nil || b.head.Len() >= n {
		return
	}
	h := b.head
	if h.owner && !h.Shared() {
		if h.pos > 0 {
			copied := copy(h.data, h.data[h.pos:h.limit])
			h.limit = int32(copied)
			h.pos = 0
		}
	} else {
		fresh := b.pool().Take()
		copied := copy(fresh.data, h.Bytes())
		fresh.limit = int32(copied)
		b.replaceHead(fresh, h)
		b.pool().Recycle(h)
		h = fresh
	}
	for h.Len() < n {
		nxt := h.next
		if nxt == h {
			break
		}
		need := n - h.Len()
		avail := nxt.Len()
		take := need
		if take > avail {
			take = avail
		}
		if take == 0 {
			break
		}
		copy(h.data[h.limit:], nxt.Bytes()[:take])
		h.limit += int32(take)
		nxt.Advance(take)
		if nxt.Len() == 0 {
			b.unlink(nxt)
			b.pool().Recycle(nxt)
		}
	}
}
