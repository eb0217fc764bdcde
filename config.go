// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"os"
	"strconv"
)

// SegmentSize is the fixed capacity of every Segment's backing array.
// Default is 8 KiB (BufferSizeMedium), matching one typical stream-buffer
// page. Call SetSegmentSize or set the SEGMENT_SIZE environment variable to
// override before any SegmentPool is constructed.
var SegmentSize = BufferSizeMedium

// SegmentSizeTLSRecord is an alternative Segment size large enough to hold
// one maximum-size TLS record (16 KiB header/MAC overhead included) without
// overflow. Collaborators fronting a TLS engine may prefer this via
// SetSegmentSize(SegmentSizeTLSRecord).
const SegmentSizeTLSRecord = 16709

// ShareMinimum is the minimum byte count at which splitHead (used by
// Buffer.WriteFrom) prefers a zero-copy shared prefix over a copied one.
// Below this threshold, copying a small prefix is cheaper than the
// bookkeeping of a shared view.
const ShareMinimum = 1024

// SegmentingThreshold is the byte count below which Buffer.ReadByteString
// and Buffer.Snapshot materialize a flat ByteString instead of a
// SegmentedByteString.
const SegmentingThreshold = 4096

// MaxPartitionBytes bounds the total backing-array bytes a single
// SegmentPool partition may hold before recycle falls through to the
// global overflow partition.
var MaxPartitionBytes = 256 * 1024

// MaxPoolBytesPerPartition bounds the global second-chance partition,
// expressed per source partition (the effective cap is this value times
// the partition count P).
var MaxPoolBytesPerPartition = 4 * 1024 * 1024

// SetSegmentSize updates the package-level Segment size used by newly
// created SegmentPools. It has no effect on pools already constructed.
func SetSegmentSize(size int) {
	if size <= 0 {
		panic("segbuf: segment size must be positive")
	}
	SegmentSize = size
}

// SetMaxPartitionBytes updates the per-partition byte cap used by newly
// created SegmentPools.
func SetMaxPartitionBytes(n int) {
	MaxPartitionBytes = n
}

// SetMaxPoolBytes updates the global overflow-partition byte cap (per
// source partition) used by newly created SegmentPools.
func SetMaxPoolBytes(n int) {
	MaxPoolBytesPerPartition = n
}

func init() {
	if v, ok := os.LookupEnv("SEGMENT_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			SegmentSize = n
		}
	}
	if v, ok := os.LookupEnv("MAX_PARTITION_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			MaxPartitionBytes = n
		}
	}
	if v, ok := os.LookupEnv("MAX_POOL_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			MaxPoolBytesPerPartition = n
		}
	}
}
