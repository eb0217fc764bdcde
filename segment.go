// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "sync/atomic"

// segmentStatus values form the atomic status cycle of a Segment (§4.1).
// REMOVING is terminal for the Segment's lifetime in its current queue;
// AVAILABLE is the default idle state.
const (
	segAvailable uint32 = iota
	segWriting
	segTransferring
	segRemoving
)

// CopyTracker is an atomic reference count attached to a Segment's backing
// array the first time that array is shared. It is lazily created: a
// freshly taken Segment has a nil tracker and is implicitly the sole
// reference to its array.
//
// count tracks the number of live Segment views over the array, including
// the original. It starts at 1 when first attached (the original owner) and
// is incremented once per SharedCopy. IsShared reports whether more than
// one view remains; RemoveCopy reports whether the caller held the last
// live reference, at which point the backing array may be returned to the
// pool.
type CopyTracker struct {
	count atomic.Int32
}

func newCopyTracker() *CopyTracker {
	t := &CopyTracker{}
	t.count.Store(1)
	return t
}

// AddCopy registers one more live view over the tracked array.
func (t *CopyTracker) AddCopy() { t.count.Add(1) }

// RemoveCopy releases one live view. It returns true iff this call released
// the last reference, meaning the backing array is now safe to recycle.
func (t *CopyTracker) RemoveCopy() bool { return t.count.Add(-1) == 0 }

// IsShared reports whether more than one Segment currently references the
// tracked array.
func (t *CopyTracker) IsShared() bool { return t.count.Load() > 1 }

// Segment is a fixed-capacity byte page: the unit of ownership and sharing
// in the engine (§4.1). The zero value is not usable; Segments are produced
// by SegmentPool.Take or by splitting/copying an existing Segment.
type Segment struct {
	data  []byte // len(data) == cap(data) == SegmentPool's configured size
	pos   int32  // first unread byte
	limit int32  // one past the last written byte
	owner bool   // true iff this Segment may extend limit

	tracker *CopyTracker // nil until first SharedCopy

	prev, next *Segment // circular doubly-linked neighbors inside a Buffer

	status atomic.Uint32
}

// Pos returns the first unread byte offset.
func (s *Segment) Pos() int { return int(s.pos) }

// Limit returns one past the last written byte offset.
func (s *Segment) Limit() int { return int(s.limit) }

// Len returns the number of unread bytes held by this Segment.
func (s *Segment) Len() int { return int(s.limit - s.pos) }

// Cap returns the Segment's fixed backing-array capacity.
func (s *Segment) Cap() int { return len(s.data) }

// IsOwner reports whether this Segment may extend its limit.
func (s *Segment) IsOwner() bool { return s.owner }

// Shared reports whether this Segment's backing array is referenced by more
// than one Segment. A shared Segment is immutable: neither pos, limit, nor
// the array's bytes may be mutated (invariant 2, §3).
func (s *Segment) Shared() bool { return s.tracker != nil && s.tracker.IsShared() }

// Bytes returns the unread bytes [pos, limit) as a read-only view. Callers
// must not mutate the returned slice.
func (s *Segment) Bytes() []byte { return s.data[s.pos:s.limit] }

// ByteAt returns the byte at logical offset i within [0, Len()).
func (s *Segment) ByteAt(i int) byte { return s.data[int(s.pos)+i] }

// Advance consumes n unread bytes, moving pos forward. It never mutates a
// shared Segment's backing array, only this view's own pos field.
func (s *Segment) Advance(n int) { s.pos += int32(n) }

// WritableLen returns the number of additional bytes the owner may append
// before reaching the array's capacity.
func (s *Segment) WritableLen() int {
	if !s.owner {
		return 0
	}
	return len(s.data) - int(s.limit)
}

// WriteView exposes data[limit : limit+n] for in-place writing by syscall-
// friendly scatter/gather I/O. The caller must call CommitWrite(n) after
// filling it. Panics if this Segment is not the owner.
func (s *Segment) WriteView(n int) []byte {
	if !s.owner {
		panicState("WriteView on non-owner segment")
	}
	return s.data[s.limit : int(s.limit)+n]
}

// CommitWrite advances limit by n after the caller has filled a WriteView.
func (s *Segment) CommitWrite(n int) {
	if !s.owner {
		panicState("CommitWrite on non-owner segment")
	}
	s.limit += int32(n)
	if s.limit > int32(len(s.data)) {
		panicState("CommitWrite overflowed segment capacity")
	}
}

// TryWrite attempts the AVAILABLE -> WRITING transition. Only the owner may
// succeed.
func (s *Segment) TryWrite() bool {
	if !s.owner {
		return false
	}
	return s.status.CompareAndSwap(segAvailable, segWriting)
}

// FinishWrite commits the WRITING -> AVAILABLE transition. Calling it when
// the Segment is not WRITING is a programming error.
func (s *Segment) FinishWrite() {
	if !s.status.CompareAndSwap(segWriting, segAvailable) {
		panicState("FinishWrite from non-WRITING state")
	}
}

// TryRemove attempts the AVAILABLE -> REMOVING transition. It returns true
// if the Segment is now REMOVING, including if it already was.
func (s *Segment) TryRemove() bool {
	for {
		switch s.status.Load() {
		case segRemoving:
			return true
		case segAvailable:
			if s.status.CompareAndSwap(segAvailable, segRemoving) {
				return true
			}
		default:
			return false
		}
	}
}

// ValidateRemove requires the Segment to be REMOVING. It returns true iff
// the Segment is fully drained (pos == limit), in which case the caller
// should unlink it. Otherwise it reverts the status to AVAILABLE and
// returns false.
func (s *Segment) ValidateRemove() bool {
	if s.pos == s.limit {
		return true
	}
	s.status.Store(segAvailable)
	return false
}

// StartTransfer attempts the AVAILABLE -> TRANSFERRING transition. If the
// Segment was WRITING, the status is left untouched and wasWriting is true.
// Any other starting state is an invariant violation.
func (s *Segment) StartTransfer() (wasWriting bool) {
	switch s.status.Load() {
	case segWriting:
		return true
	case segAvailable:
		if !s.status.CompareAndSwap(segAvailable, segTransferring) {
			panicState("concurrent status change during StartTransfer")
		}
		return false
	default:
		panicState("StartTransfer from invalid state")
		return false
	}
}

// FinishTransfer reverses StartTransfer. If the Segment was WRITING,
// nothing happened at StartTransfer and nothing happens here either.
func (s *Segment) FinishTransfer(wasWriting bool) {
	if wasWriting {
		return
	}
	if !s.status.CompareAndSwap(segTransferring, segAvailable) {
		panicState("FinishTransfer from non-TRANSFERRING state")
	}
}

// SharedCopy creates a new non-owner view over the same backing array,
// pos, and limit, incrementing the CopyTracker. The returned Segment is
// immutable per invariant 2.
func (s *Segment) SharedCopy() *Segment {
	if s.tracker == nil {
		s.tracker = newCopyTracker()
	}
	s.tracker.AddCopy()
	return &Segment{
		data:    s.data,
		pos:     s.pos,
		limit:   s.limit,
		owner:   false,
		tracker: s.tracker,
	}
}

// UnsharedCopy clones the backing array into a fresh owner Segment, safe to
// mutate independently of any other view.
func (s *Segment) UnsharedCopy() *Segment {
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return &Segment{data: data, pos: s.pos, limit: s.limit, owner: true}
}

// WriteTo copies byteCount bytes from this Segment into target, compacting
// target first if needed. Preconditions: target is the owner of its array
// and is not shared.
func (s *Segment) WriteTo(target *Segment, byteCount int) {
	if !target.owner || target.Shared() {
		panicState("WriteTo requires an unshared owner target")
	}
	if int(target.limit)+byteCount > len(target.data) {
		// Compact: shift target's live bytes down to offset 0.
		n := copy(target.data, target.data[target.pos:target.limit])
		target.limit = int32(n)
		target.pos = 0
	}
	n := copy(target.data[target.limit:], s.data[s.pos:int(s.pos)+byteCount])
	if n != byteCount {
		panicState("WriteTo short copy")
	}
	target.limit += int32(byteCount)
	s.pos += int32(byteCount)
}

// compactableInto reports whether this Segment (as a prospective tail) can
// absorb newBytes more bytes by compacting rather than splicing in a new
// segment, per the §4.3.3 compactable-tail test.
func (s *Segment) compactableInto(newBytes int) bool {
	if !s.owner {
		return false
	}
	freeAtEnd := len(s.data) - int(s.limit)
	reclaimable := 0
	if !s.Shared() {
		reclaimable = int(s.pos)
	}
	return newBytes <= freeAtEnd+reclaimable
}
