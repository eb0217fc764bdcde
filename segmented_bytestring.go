// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"runtime"
	"sort"
	"sync"
)

// SegmentedByteString is a ByteString backed by zero-copy shared views over
// one or more Segments, produced by Buffer.ReadByteString and
// Buffer.Snapshot for sizes at or above SegmentingThreshold (§4.4).
//
// directory[i] holds the cumulative byte count through segments[i], so
// directory[len-1] == Len(). Locating byte i is a binary search over
// directory followed by one Segment.ByteAt call.
type SegmentedByteString struct {
	segments  []*Segment
	directory []int64

	hashOnce sync.Once
	hash     uint32
}

// newSegmentedByteString takes ownership of segs (already shared copies)
// and registers a cleanup that recycles them into pool once the returned
// SegmentedByteString becomes unreachable. The cleanup closure captures
// segs and pool, not the SegmentedByteString itself, so it does not keep
// the value alive (runtime.AddCleanup's documented requirement).
func newSegmentedByteString(segs []*Segment, directory []int64, pool *SegmentPool) *SegmentedByteString {
	sbs := &SegmentedByteString{segments: segs, directory: directory}
	runtime.AddCleanup(sbs, func(s []*Segment) {
		for _, seg := range s {
			pool.Recycle(seg)
		}
	}, segs)
	return sbs
}

func (s *SegmentedByteString) Len() int {
	if len(s.directory) == 0 {
		return 0
	}
	return int(s.directory[len(s.directory)-1])
}

// locate returns the segment index holding logical offset i and the
// logical offset of that segment's first byte.
func (s *SegmentedByteString) locate(i int) (segIdx int, segStart int64) {
	idx := sort.Search(len(s.directory), func(j int) bool { return s.directory[j] > int64(i) })
	if idx == 0 {
		return 0, 0
	}
	return idx, s.directory[idx-1]
}

func (s *SegmentedByteString) At(i int) byte {
	idx, start := s.locate(i)
	return s.segments[idx].ByteAt(int(int64(i) - start))
}

func (s *SegmentedByteString) ToByteArray() []byte {
	out := make([]byte, s.Len())
	var off int64
	for _, seg := range s.segments {
		n := copy(out[off:], seg.Bytes())
		off += int64(n)
	}
	return out
}

func (s *SegmentedByteString) Substring(start, end int) ByteString {
	if start < 0 || end > s.Len() || start > end {
		panic(&RangeError{Op: "Substring", Offset: int64(start), Len: int64(s.Len())})
	}
	if end-start < SegmentingThreshold {
		return NewByteString(s.sliceBytes(start, end))
	}
	startIdx, startSegOffset := s.locate(start)
	endIdx, _ := s.locate(end - 1)
	segs := make([]*Segment, 0, endIdx-startIdx+1)
	dir := make([]int64, 0, endIdx-startIdx+1)
	var cum int64
	for i := startIdx; i <= endIdx; i++ {
		seg := s.segments[i]
		segLogicalStart := startSegOffset
		if i > startIdx {
			segLogicalStart = s.directory[i-1]
		}
		lo := 0
		if i == startIdx {
			lo = int(int64(start) - segLogicalStart)
		}
		hi := seg.Len()
		if i == endIdx {
			hi = int(int64(end) - segLogicalStart)
		}
		cp := seg.SharedCopy()
		cp.pos = seg.pos + int32(lo)
		cp.limit = seg.pos + int32(hi)
		cum += int64(hi - lo)
		segs = append(segs, cp)
		dir = append(dir, cum)
	}
	// Derived shared Segments recycle into the process-wide pool: the
	// source Buffer that originally produced them may no longer exist by
	// the time this substring becomes unreachable.
	return newSegmentedByteString(segs, dir, DefaultSegmentPool())
}

func (s *SegmentedByteString) sliceBytes(start, end int) []byte {
	out := make([]byte, end-start)
	for i := range out {
		out[i] = s.At(start + i)
	}
	return out
}

func (s *SegmentedByteString) StartsWith(prefix ByteString) bool {
	if prefix.Len() > s.Len() {
		return false
	}
	return s.RangeEquals(0, prefix, 0, prefix.Len())
}

func (s *SegmentedByteString) EndsWith(suffix ByteString) bool {
	if suffix.Len() > s.Len() {
		return false
	}
	return s.RangeEquals(s.Len()-suffix.Len(), suffix, 0, suffix.Len())
}

func (s *SegmentedByteString) IndexOf(sub ByteString, start int) int {
	return genericIndexOf(s, sub, start)
}

func (s *SegmentedByteString) LastIndexOf(sub ByteString) int {
	return genericLastIndexOf(s, sub)
}

func (s *SegmentedByteString) RangeEquals(offset int, other ByteString, otherOffset, count int) bool {
	return genericRangeEquals(s, offset, other, otherOffset, count)
}

func (s *SegmentedByteString) CompareTo(other ByteString) int {
	return genericCompare(s, other)
}

func (s *SegmentedByteString) Equal(other ByteString) bool {
	return s.Len() == other.Len() && s.CompareTo(other) == 0
}

func (s *SegmentedByteString) HashCode() uint32 {
	s.hashOnce.Do(func() {
		var h uint32
		for _, seg := range s.segments {
			for _, c := range seg.Bytes() {
				h = h*31 + uint32(c)
			}
		}
		s.hash = h
	})
	return s.hash
}

func (s *SegmentedByteString) String() string { return string(s.ToByteArray()) }

// Write appends shared copies of this ByteString's Segments to dst,
// zero-copy.
func (s *SegmentedByteString) Write(dst *Buffer) (int, error) {
	for _, seg := range s.segments {
		dst.appendSegment(seg.SharedCopy())
		dst.byteSize += int64(seg.Len())
	}
	return s.Len(), nil
}
