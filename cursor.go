// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// UnsafeCursor grants direct, in-place access to a Buffer's backing arrays
// for callers implementing their own scanning or codec loop without paying
// for an extra copy (§4.3.8). It is "unsafe" in the sense that misuse
// (holding it across a concurrent mutation of the Buffer, or writing
// through Data when ReadWrite is false) corrupts the Buffer; callers get
// the same discipline as Segment.WriteView/CommitWrite.
type UnsafeCursor struct {
	// Data is the current Segment's live window. Valid only between a
	// Seek/Next call and the next cursor operation.
	Data []byte
	// Offset is the absolute Buffer offset of Data[0].
	Offset int64
	// ReadWrite reports whether Data may be mutated and Resize/Expand are
	// available.
	ReadWrite bool

	buffer *Buffer
	seg    *Segment
}

// NewUnsafeCursor opens a read-only cursor over b.
func NewUnsafeCursor(b *Buffer) *UnsafeCursor {
	return &UnsafeCursor{buffer: b}
}

// NewUnsafeReadWriteCursor opens a cursor over b that may mutate owned,
// unshared Segments and grow or shrink the Buffer.
func NewUnsafeReadWriteCursor(b *Buffer) *UnsafeCursor {
	return &UnsafeCursor{buffer: b, ReadWrite: true}
}

// Seek positions the cursor at absolute offset and loads that Segment's
// full live window into Data. Returns the number of bytes available from
// offset to the end of that Segment, or -1 if offset == ByteSize().
func (c *UnsafeCursor) Seek(offset int64) int {
	if offset == c.buffer.byteSize {
		c.seg = nil
		c.Data = nil
		c.Offset = offset
		return -1
	}
	seg, segOffset, err := c.buffer.seek(offset)
	if err != nil {
		panic(err)
	}
	c.seg = seg
	c.Offset = segOffset
	c.Data = seg.Bytes()
	return int(segOffset) + len(c.Data) - int(offset)
}

// Next advances to the Segment following the one currently loaded (or the
// Buffer's head, if the cursor has not yet been seeked) and loads its live
// window into Data. Returns len(Data), or -1 at end of Buffer.
func (c *UnsafeCursor) Next() int {
	var seg *Segment
	var offset int64
	if c.seg == nil {
		seg = c.buffer.head
		offset = 0
	} else {
		seg = c.seg.next
		offset = c.Offset + int64(c.seg.Len())
		if seg == c.buffer.head {
			seg = nil
		}
	}
	if seg == nil {
		c.Data = nil
		return -1
	}
	c.seg = seg
	c.Offset = offset
	c.Data = seg.Bytes()
	return len(c.Data)
}

// ResizeBuffer grows or shrinks the cursor's Buffer to exactly newSize
// bytes, dropping the currently loaded window. Requires ReadWrite.
func (c *UnsafeCursor) ResizeBuffer(newSize int64) int64 {
	if !c.ReadWrite {
		panicState("ResizeBuffer on a read-only UnsafeCursor")
	}
	old := c.buffer.byteSize
	switch {
	case newSize < old:
		_ = c.buffer.Skip(old - newSize)
	case newSize > old:
		grow := newSize - old
		for grow > 0 {
			tail := c.buffer.writableTail(1)
			free := int64(tail.WritableLen())
			take := grow
			if take > free {
				take = free
			}
			tail.CommitWrite(int(take))
			c.buffer.byteSize += take
			grow -= take
		}
	}
	c.seg = nil
	c.Data = nil
	return old
}

// ExpandBuffer appends a fresh owned Segment with at least minByteCount of
// capacity, commits its entire capacity as live bytes, and loads it into
// Data for writing in place. Requires ReadWrite and minByteCount no larger
// than the Buffer's pool Segment size. Returns the Buffer's size before
// the expansion.
func (c *UnsafeCursor) ExpandBuffer(minByteCount int) int64 {
	if !c.ReadWrite {
		panicState("ExpandBuffer on a read-only UnsafeCursor")
	}
	if minByteCount <= 0 || minByteCount > c.buffer.pool().Size() {
		panicState("ExpandBuffer: minByteCount out of range for this pool")
	}
	old := c.buffer.byteSize
	fresh := c.buffer.pool().Take()
	fresh.CommitWrite(fresh.WritableLen())
	c.buffer.pushTail(fresh)
	c.buffer.byteSize += int64(fresh.Len())
	c.seg = fresh
	c.Offset = old
	c.Data = fresh.Bytes()
	return old
}

// Close releases the cursor's reference to its current Segment. The
// Buffer itself is unaffected.
func (c *UnsafeCursor) Close() {
	c.seg = nil
	c.Data = nil
}
