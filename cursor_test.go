// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestUnsafeCursor_ReadOnlyWalksEverySegment(t *testing.T) {
	data := bytes.Repeat([]byte("c"), segbuf.SegmentSize*3+11)
	var b segbuf.Buffer
	_, _ = b.Write(data)

	c := segbuf.NewUnsafeCursor(&b)
	var seen int64
	for {
		n := c.Next()
		if n < 0 {
			break
		}
		seen += int64(n)
	}
	if seen != int64(len(data)) {
		t.Fatalf("cursor observed %d bytes, want %d", seen, len(data))
	}
}

func TestUnsafeCursor_SeekReportsTailLength(t *testing.T) {
	data := bytes.Repeat([]byte("d"), segbuf.SegmentSize+3)
	var b segbuf.Buffer
	_, _ = b.Write(data)

	c := segbuf.NewUnsafeCursor(&b)
	n := c.Seek(0)
	if n <= 0 {
		t.Fatalf("Seek(0) = %d, want > 0", n)
	}
	if c.Offset != 0 {
		t.Fatalf("Offset after Seek(0) = %d, want 0", c.Offset)
	}

	end := c.Seek(b.ByteSize())
	if end != -1 {
		t.Fatalf("Seek(ByteSize()) = %d, want -1", end)
	}
}

func TestUnsafeCursor_ReadWriteExpandAndResize(t *testing.T) {
	var b segbuf.Buffer
	c := segbuf.NewUnsafeReadWriteCursor(&b)

	before := c.ResizeBuffer(100)
	if before != 0 {
		t.Fatalf("ResizeBuffer returned old size %d, want 0", before)
	}
	if got := b.ByteSize(); got != 100 {
		t.Fatalf("ByteSize() after grow = %d, want 100", got)
	}

	before = c.ResizeBuffer(10)
	if before != 100 {
		t.Fatalf("ResizeBuffer returned old size %d, want 100", before)
	}
	if got := b.ByteSize(); got != 10 {
		t.Fatalf("ByteSize() after shrink = %d, want 10", got)
	}

	oldSize := c.ExpandBuffer(64)
	if oldSize != 10 {
		t.Fatalf("ExpandBuffer returned old size %d, want 10", oldSize)
	}
	if len(c.Data) < 64 {
		t.Fatalf("ExpandBuffer loaded a window of %d bytes, want >= 64", len(c.Data))
	}
	c.Close()
}

func TestUnsafeCursor_ReadOnlyCannotResize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("ResizeBuffer on a read-only cursor should panic")
		}
	}()
	var b segbuf.Buffer
	c := segbuf.NewUnsafeCursor(&b)
	c.ResizeBuffer(10)
}
