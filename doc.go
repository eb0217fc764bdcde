// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package segbuf provides a segmented I/O buffer engine: a lock-free segment
// pool, a circular-queue Buffer, immutable ByteString/SegmentedByteString
// snapshots, a trie-based multi-prefix Options matcher, a bounded Pipe, and a
// buffered Reader/Writer layer that adapts raw byte sources/sinks to the
// Buffer.
//
// The engine moves bytes between producers and consumers (file channels,
// sockets, compressors, TLS engines, pipes, in-memory transforms) while
// minimizing copying. It is the zero-allocation-hot-path core that sits below
// those collaborators; it does not itself perform file/socket/TLS/codec I/O.
//
// # Segment and SegmentPool
//
// A Segment is a fixed-capacity byte page with owner/share semantics: exactly
// one Segment per backing array may extend its write limit (the owner), and
// any number of Segments may hold a shared, read-only view of the same array
// (tracked by a CopyTracker refcount). SegmentPool recycles Segments through
// per-partition lock-free LIFO free lists, selected by a hash of the calling
// goroutine's affinity, with a global second-chance overflow partition.
//
//	pool := segbuf.DefaultSegmentPool()
//	seg := pool.Take()
//	defer pool.Recycle(seg)
//
// # Buffer
//
// Buffer is a doubly-linked circular queue of Segments implementing both a
// mutable byte queue (Write*/Read* primitives) and an immutable snapshot
// source (Snapshot). Buffer.WriteFrom transfers bytes from another Buffer by
// splicing or sharing whole segments instead of copying wherever possible.
//
//	var buf segbuf.Buffer
//	buf.WriteString("hello")
//	n, _ := buf.ReadByte()
//
// # ByteString / SegmentedByteString
//
// ByteString is an immutable flat byte sequence. Buffer.ReadByteString
// returns a SegmentedByteString once the requested length reaches
// SegmentingThreshold; it holds shared copies of the originating Buffer
// segments instead of copying their bytes.
//
// # Options
//
// Options compiles a set of byte-string alternatives into a compact int32
// SELECT/SCAN trie; Buffer.Select walks the trie against buffered bytes to
// find the longest matching alternative without materializing candidates.
//
// # Pipe
//
// Pipe is a bounded in-memory one-producer/one-consumer channel backed by a
// Buffer, with an optional Fold that turns it into a downstream pass-through.
//
// # Dependencies
//
// segbuf depends on code.hybscloud.com/spin for the adaptive backoff a
// SegmentPool partition uses between CAS retries on its Treiber stack.
package segbuf
