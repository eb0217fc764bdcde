// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestFlatByteString_Basics(t *testing.T) {
	bs := segbuf.NewByteStringFromString("hello world")
	if bs.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", bs.Len())
	}
	if bs.At(0) != 'h' {
		t.Fatalf("At(0) = %c, want 'h'", bs.At(0))
	}
	if bs.String() != "hello world" {
		t.Fatalf("String() = %q", bs.String())
	}
	if !bytes.Equal(bs.ToByteArray(), []byte("hello world")) {
		t.Fatalf("ToByteArray() mismatch")
	}
}

func TestFlatByteString_SubstringAndAffixes(t *testing.T) {
	bs := segbuf.NewByteStringFromString("hello world")
	sub := bs.Substring(6, 11)
	if sub.String() != "world" {
		t.Fatalf("Substring(6, 11) = %q, want %q", sub.String(), "world")
	}
	if !bs.StartsWith(segbuf.NewByteStringFromString("hello")) {
		t.Fatalf("StartsWith(\"hello\") = false")
	}
	if !bs.EndsWith(segbuf.NewByteStringFromString("world")) {
		t.Fatalf("EndsWith(\"world\") = false")
	}
	if bs.StartsWith(segbuf.NewByteStringFromString("HELLO")) {
		t.Fatalf("StartsWith is expected to be case-sensitive")
	}
}

func TestFlatByteString_IndexOf(t *testing.T) {
	bs := segbuf.NewByteStringFromString("abcabcabc")
	needle := segbuf.NewByteStringFromString("bca")
	if idx := bs.IndexOf(needle, 0); idx != 1 {
		t.Fatalf("IndexOf = %d, want 1", idx)
	}
	if idx := bs.IndexOf(needle, 2); idx != 4 {
		t.Fatalf("IndexOf(start=2) = %d, want 4", idx)
	}
	if idx := bs.LastIndexOf(needle); idx != 4 {
		t.Fatalf("LastIndexOf = %d, want 4", idx)
	}
	if idx := bs.IndexOf(segbuf.NewByteStringFromString("xyz"), 0); idx != -1 {
		t.Fatalf("IndexOf of absent substring = %d, want -1", idx)
	}
}

func TestFlatByteString_CompareAndEqual(t *testing.T) {
	a := segbuf.NewByteStringFromString("abc")
	b := segbuf.NewByteStringFromString("abd")
	c := segbuf.NewByteStringFromString("abc")
	if a.CompareTo(b) >= 0 {
		t.Fatalf("CompareTo: \"abc\" should sort before \"abd\"")
	}
	if !a.Equal(c) {
		t.Fatalf("Equal: identical byte strings should be equal")
	}
	if a.Equal(b) {
		t.Fatalf("Equal: distinct byte strings should not be equal")
	}
	if a.HashCode() != c.HashCode() {
		t.Fatalf("HashCode: identical byte strings should hash identically")
	}
}

func TestFlatByteString_Write(t *testing.T) {
	bs := segbuf.NewByteStringFromString("payload")
	var buf segbuf.Buffer
	n, err := bs.Write(&buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 7 {
		t.Fatalf("Write returned n=%d, want 7", n)
	}
	got, _ := buf.ReadByteString(buf.ByteSize())
	if got.String() != "payload" {
		t.Fatalf("round trip through Buffer = %q", got.String())
	}
}

func TestSegmentedByteString_EquivalesFlatForSameContent(t *testing.T) {
	data := bytes.Repeat([]byte("zyx-"), int(segbuf.SegmentingThreshold))

	var b segbuf.Buffer
	_, _ = b.Write(data)
	segmented, err := b.ReadByteString(int64(len(data)))
	if err != nil {
		t.Fatalf("ReadByteString: %v", err)
	}

	flat := segbuf.NewByteString(data)

	if segmented.Len() != flat.Len() {
		t.Fatalf("Len mismatch: segmented=%d flat=%d", segmented.Len(), flat.Len())
	}
	if !segmented.Equal(flat) {
		t.Fatalf("segmented and flat forms of identical content should be Equal")
	}
	if segmented.HashCode() != flat.HashCode() {
		t.Fatalf("HashCode mismatch between segmented and flat forms")
	}
	if !bytes.Equal(segmented.ToByteArray(), flat.ToByteArray()) {
		t.Fatalf("ToByteArray mismatch between segmented and flat forms")
	}
	mid := segmented.Len() / 2
	segSub := segmented.Substring(10, mid)
	flatSub := flat.Substring(10, mid)
	if !segSub.Equal(flatSub) {
		t.Fatalf("Substring of segmented and flat forms should agree")
	}
}

func TestSegmentedByteString_SubstringAboveAndBelowThreshold(t *testing.T) {
	data := bytes.Repeat([]byte("q"), int(segbuf.SegmentingThreshold)*4)
	var b segbuf.Buffer
	_, _ = b.Write(data)
	bs, err := b.ReadByteString(int64(len(data)))
	if err != nil {
		t.Fatalf("ReadByteString: %v", err)
	}

	smallSub := bs.Substring(0, 8)
	if smallSub.Len() != 8 {
		t.Fatalf("small Substring Len() = %d, want 8", smallSub.Len())
	}

	bigSub := bs.Substring(0, bs.Len()-1)
	if bigSub.Len() != bs.Len()-1 {
		t.Fatalf("big Substring Len() = %d, want %d", bigSub.Len(), bs.Len()-1)
	}
	if !bytes.Equal(bigSub.ToByteArray(), data[:len(data)-1]) {
		t.Fatalf("big Substring contents mismatch")
	}
}
