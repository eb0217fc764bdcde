// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/segbuf"
)

// chunkSource hands out fixed-size chunks of an underlying byte slice,
// simulating a collaborator (socket, file) that only ever returns a little
// data per call.
type chunkSource struct {
	data      []byte
	chunkSize int
	pos       int
	closed    bool
}

func (s *chunkSource) ReadInto(dst *segbuf.Buffer, byteCount int64) (int64, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := s.chunkSize
	if int64(n) > byteCount {
		n = int(byteCount)
	}
	if s.pos+n > len(s.data) {
		n = len(s.data) - s.pos
	}
	written, err := dst.Write(s.data[s.pos : s.pos+n])
	s.pos += written
	return int64(written), err
}

func (s *chunkSource) Close() error {
	s.closed = true
	return nil
}

func TestBufferedReader_ReadsAcrossManySmallFills(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 1000)
	src := &chunkSource{data: payload, chunkSize: 7}
	r := segbuf.NewBufferedReader(src)

	out := make([]byte, 0, len(payload))
	for {
		bs, err := r.ReadByteString(64)
		if err != nil {
			if errors.Is(err, segbuf.ErrEOF) {
				break
			}
			t.Fatalf("ReadByteString: %v", err)
		}
		out = append(out, bs.ToByteArray()...)
	}
	remaining := len(payload) % 64
	if remaining > 0 {
		bs, err := r.ReadByteString(int64(remaining))
		if err != nil {
			t.Fatalf("ReadByteString tail: %v", err)
		}
		out = append(out, bs.ToByteArray()...)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("BufferedReader did not preserve bytes across fills")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !src.closed {
		t.Fatalf("Close did not close the underlying source")
	}
}

func TestBufferedReader_ReadLineAcrossFills(t *testing.T) {
	src := &chunkSource{data: []byte("alpha\nbeta\ngamma"), chunkSize: 3}
	r := segbuf.NewBufferedReader(src)

	for _, want := range []string{"alpha", "beta", "gamma"} {
		got, err := r.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Fatalf("ReadLine = %q, want %q", got, want)
		}
	}
}

func TestBufferedReader_ExhaustedAndRequest(t *testing.T) {
	src := &chunkSource{data: []byte("ab"), chunkSize: 2}
	r := segbuf.NewBufferedReader(src)

	ok, err := r.Request(2)
	if err != nil || !ok {
		t.Fatalf("Request(2) = (%v, %v), want (true, nil)", ok, err)
	}
	if r.Exhausted() {
		t.Fatalf("reader should not be exhausted with 2 bytes still buffered")
	}
	if _, err := r.ReadByteString(2); err != nil {
		t.Fatalf("ReadByteString: %v", err)
	}
	if !r.Exhausted() {
		t.Fatalf("reader should be exhausted once source and buffer are drained")
	}
}

// chunkSink accumulates everything written to it, verifying BufferedWriter
// pushes complete Segments as writes accumulate.
type chunkSink struct {
	out    bytes.Buffer
	closed bool
}

func (s *chunkSink) WriteFrom(src *segbuf.Buffer, byteCount int64) error {
	_, err := src.CopyTo(&s.out, 0, byteCount)
	if err != nil {
		return err
	}
	return src.Skip(byteCount)
}

func (s *chunkSink) Flush() error { return nil }
func (s *chunkSink) Close() error { s.closed = true; return nil }

func TestBufferedWriter_FlushAndClose(t *testing.T) {
	sink := &chunkSink{}
	w := segbuf.NewBufferedWriter(sink)

	if _, err := w.WriteString("hello, "); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if _, err := w.WriteString("world"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sink.out.String() != "hello, world" {
		t.Fatalf("sink received %q, want %q", sink.out.String(), "hello, world")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !sink.closed {
		t.Fatalf("Close did not close the underlying sink")
	}
}

func TestBufferedWriter_EmitsCompleteSegmentsEagerly(t *testing.T) {
	sink := &chunkSink{}
	w := segbuf.NewBufferedWriter(sink)

	big := bytes.Repeat([]byte("w"), segbuf.SegmentSize*3+17)
	if _, err := w.Write(big); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sink.out.Len() == 0 {
		t.Fatalf("BufferedWriter should have pushed complete segments before Flush")
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sink.out.Len() != len(big) {
		t.Fatalf("sink received %d bytes, want %d", sink.out.Len(), len(big))
	}
}

func TestBufferedWriter_WriteAfterCloseFails(t *testing.T) {
	w := segbuf.NewBufferedWriter(&chunkSink{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := w.WriteString("too late"); err != segbuf.ErrClosed {
		t.Fatalf("WriteString after Close = %v, want ErrClosed", err)
	}
}
