// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestSegmentPool_SizeMatchesConstructorArgument(t *testing.T) {
	pool := segbuf.NewSegmentPool(1234)
	if got := pool.Size(); got != 1234 {
		t.Fatalf("Size() = %d, want 1234", got)
	}
}

func TestSegmentPool_SizeFallsBackToPackageDefault(t *testing.T) {
	pool := segbuf.NewSegmentPool(0)
	if got := pool.Size(); got != segbuf.SegmentSize {
		t.Fatalf("Size() = %d, want package default %d", got, segbuf.SegmentSize)
	}
}

func TestSegmentPool_BuffersReuseRecycledSegments(t *testing.T) {
	pool := segbuf.NewSegmentPool(64)

	var b1 segbuf.Buffer
	b1.SetPool(pool)
	data := bytes.Repeat([]byte("r"), 200)
	if _, err := b1.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b1.Clear() // recycles every Segment it drew back into pool

	var b2 segbuf.Buffer
	b2.SetPool(pool)
	if _, err := b2.Write(data); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	out := make([]byte, len(data))
	if _, err := b2.Read(out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("buffer drawing from a pool with recycled segments produced wrong bytes")
	}
}

func TestSegmentPool_DefaultIsProcessWideSingleton(t *testing.T) {
	a := segbuf.DefaultSegmentPool()
	b := segbuf.DefaultSegmentPool()
	if a != b {
		t.Fatalf("DefaultSegmentPool() should return the same instance across calls")
	}
}

func TestBuffer_SetPoolPanicsOnceBufferHoldsBytes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("SetPool on a non-empty Buffer should panic")
		}
	}()
	var b segbuf.Buffer
	_, _ = b.WriteString("x")
	b.SetPool(segbuf.NewSegmentPool(512))
}
