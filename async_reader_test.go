// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/segbuf"
)

// lockstepSource hands out one chunk per ReadInto call from a fixed
// sequence, blocking between chunks until released, so tests can observe
// AsyncReader's background goroutine making progress one step at a time.
type lockstepSource struct {
	mu      sync.Mutex
	cond    *sync.Cond
	chunks  [][]byte
	err     error
	idx     int
	release bool
}

func newLockstepSource(chunks [][]byte, err error) *lockstepSource {
	s := &lockstepSource{chunks: chunks, err: err}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *lockstepSource) allow() {
	s.mu.Lock()
	s.release = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *lockstepSource) ReadInto(dst *segbuf.Buffer, byteCount int64) (int64, error) {
	s.mu.Lock()
	for !s.release {
		s.cond.Wait()
	}
	s.release = false
	defer s.mu.Unlock()

	if s.idx >= len(s.chunks) {
		return 0, s.err
	}
	chunk := s.chunks[s.idx]
	s.idx++
	n, _ := dst.Write(chunk)
	return int64(n), nil
}

func (s *lockstepSource) Close() error { return nil }

func TestAsyncReader_DeliversBytesAsTheyArrive(t *testing.T) {
	src := newLockstepSource([][]byte{[]byte("ab"), []byte("cd")}, io.EOF)
	r := segbuf.NewAsyncReader(src)
	defer r.Close()

	src.allow()
	if err := r.Require(2); err != nil {
		t.Fatalf("Require(2): %v", err)
	}
	c, err := r.ReadByte()
	if err != nil || c != 'a' {
		t.Fatalf("ReadByte = (%c, %v), want ('a', nil)", c, err)
	}

	src.allow()
	if err := r.Require(3); err != nil {
		t.Fatalf("Require(3): %v", err)
	}
	bs, err := r.ReadByteString(3)
	if err != nil {
		t.Fatalf("ReadByteString: %v", err)
	}
	if bs.String() != "bcd" {
		t.Fatalf("ReadByteString = %q, want %q", bs.String(), "bcd")
	}
}

func TestAsyncReader_ErrorDeliveredOnceThenClosed(t *testing.T) {
	boom := errors.New("read failed")
	src := newLockstepSource(nil, boom)
	r := segbuf.NewAsyncReader(src)
	defer r.Close()

	src.allow()
	err := r.Require(1)
	if !errors.Is(err, boom) {
		t.Fatalf("first Require after source error = %v, want %v", err, boom)
	}

	err = r.Require(1)
	if !errors.Is(err, segbuf.ErrClosed) {
		t.Fatalf("second Require after source error = %v, want ErrClosed", err)
	}
}

func TestAsyncReader_EOFTranslatesToErrEOF(t *testing.T) {
	src := newLockstepSource(nil, io.EOF)
	r := segbuf.NewAsyncReader(src)
	defer r.Close()

	src.allow()
	if err := r.Require(1); !errors.Is(err, segbuf.ErrEOF) {
		t.Fatalf("Require after source EOF = %v, want ErrEOF", err)
	}
}

func TestAsyncReader_ReadLineWaitsForTerminator(t *testing.T) {
	src := newLockstepSource([][]byte{[]byte("abc"), []byte("def\n")}, io.EOF)
	r := segbuf.NewAsyncReader(src)
	defer r.Close()

	done := make(chan struct{})
	var line string
	var lerr error
	go func() {
		line, lerr = r.ReadLine()
		close(done)
	}()

	src.allow()
	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatalf("ReadLine returned before the terminator arrived")
	default:
	}

	src.allow()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("ReadLine did not return after the terminator arrived")
	}
	if lerr != nil {
		t.Fatalf("ReadLine: %v", lerr)
	}
	if line != "abcdef" {
		t.Fatalf("ReadLine = %q, want %q", line, "abcdef")
	}
}
