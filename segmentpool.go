// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// segmentPartition is a lock-free LIFO free list of recycled Segments,
// capped at a byte total. Segments are linked through their own next
// field (they are detached from any Buffer queue while pooled), so the
// stack costs no extra allocation. This is a Treiber stack: push and pop
// both retry on a lost CAS race, backing off with spin.Wait the same way
// a bounded MPMC ring buffer would.
type segmentPartition struct {
	head  atomic.Pointer[Segment]
	bytes atomic.Int64
	cap   int64
}

func (p *segmentPartition) push(seg *Segment) bool {
	size := int64(len(seg.data))
	sw := spin.Wait{}
	for {
		if p.bytes.Load()+size > p.cap {
			return false
		}
		old := p.head.Load()
		seg.next = old
		if p.head.CompareAndSwap(old, seg) {
			p.bytes.Add(size)
			return true
		}
		sw.Once()
	}
}

func (p *segmentPartition) pop() *Segment {
	sw := spin.Wait{}
	for {
		old := p.head.Load()
		if old == nil {
			return nil
		}
		nxt := old.next
		if p.head.CompareAndSwap(old, nxt) {
			p.bytes.Add(-int64(len(old.data)))
			old.next = nil
			return old
		}
		sw.Once()
	}
}

// SegmentPool recycles Segments through P per-"thread"-tier partitions plus
// a global second-chance overflow partition (§4.2). Each partition is
// chosen by a cheap hash of the calling goroutine's stack address, which
// approximates thread affinity without requiring access to the runtime's
// internal goroutine ID.
type SegmentPool struct {
	_ noCopy

	size       int
	partitions []segmentPartition
	overflow   segmentPartition
}

// NewSegmentPool creates a SegmentPool whose Segments have the given
// backing-array size. If size <= 0, the package-level SegmentSize is used.
// Partition count is runtime.GOMAXPROCS(0), and caps follow
// MaxPartitionBytes / MaxPoolBytesPerPartition as configured at call time.
func NewSegmentPool(size int) *SegmentPool {
	if size <= 0 {
		size = SegmentSize
	}
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	pool := &SegmentPool{
		size:       size,
		partitions: make([]segmentPartition, p),
	}
	for i := range pool.partitions {
		pool.partitions[i].cap = int64(MaxPartitionBytes)
	}
	pool.overflow.cap = int64(MaxPoolBytesPerPartition) * int64(p)
	return pool
}

var (
	defaultSegmentPool     *SegmentPool
	defaultSegmentPoolOnce sync.Once
)

// DefaultSegmentPool returns a process-wide SegmentPool sized with the
// package-level SegmentSize, created lazily on first use.
func DefaultSegmentPool() *SegmentPool {
	defaultSegmentPoolOnce.Do(func() {
		defaultSegmentPool = NewSegmentPool(SegmentSize)
	})
	return defaultSegmentPool
}

// Size returns the fixed backing-array capacity of Segments produced by
// this pool.
func (pool *SegmentPool) Size() int { return pool.size }

func (pool *SegmentPool) partitionIndex() int {
	// A pointer to a fresh stack local is a cheap, good-enough per-goroutine
	// affinity hash: distinct goroutines almost always get distinct stack
	// regions, and the value is stable for the lifetime of this call.
	var x byte
	addr := uintptr(unsafe.Pointer(&x))
	h := addr * 2654435761
	return int(h % uintptr(len(pool.partitions)))
}

// Take acquires a Segment, preferring the caller's partition, then the
// overflow partition, allocating a fresh backing array only as a last
// resort. The returned Segment is the owner, has pos == limit == 0, and is
// AVAILABLE.
func (pool *SegmentPool) Take() *Segment {
	idx := pool.partitionIndex()
	seg := pool.partitions[idx].pop()
	if seg == nil {
		seg = pool.overflow.pop()
	}
	if seg == nil {
		return &Segment{data: make([]byte, pool.size), owner: true}
	}
	seg.pos, seg.limit = 0, 0
	seg.owner = true
	seg.tracker = nil
	seg.status.Store(segAvailable)
	return seg
}

// Recycle returns a Segment to the pool. If the Segment's backing array is
// still shared with another live Segment, this call only releases this
// view's claim on the CopyTracker and does not make the array available
// for reuse (§4.2 step 1).
func (pool *SegmentPool) Recycle(seg *Segment) {
	if seg.tracker != nil {
		if !seg.tracker.RemoveCopy() {
			return
		}
		seg.tracker = nil
	}
	seg.prev, seg.next = nil, nil
	seg.pos, seg.limit = 0, 0
	seg.owner = true
	seg.status.Store(segAvailable)

	if len(seg.data) != pool.size {
		// Foreign-sized segment (e.g. produced by a differently configured
		// pool); nothing useful to do but drop it.
		return
	}

	idx := pool.partitionIndex()
	if pool.partitions[idx].push(seg) {
		return
	}
	pool.overflow.push(seg)
	// If both pushes reject (caps exceeded), the Segment is dropped and
	// left for the garbage collector, matching §4.2 step 3's "or drop".
}
