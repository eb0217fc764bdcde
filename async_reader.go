// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"errors"
	"io"
	"sync"
)

// AsyncReader is the dedicated-worker-goroutine counterpart to
// BufferedReader (§4.6.3): a background goroutine continuously pulls from
// the RawSource into an internal Buffer, so callers on another goroutine
// never block the source itself, only the short critical section guarding
// the shared Buffer.
//
// An error surfaced by the source is captured once and delivered to exactly
// one Require/Read* call (io.EOF is delivered as ErrEOF); after that, since the
// worker has already exited and cannot be restarted, every subsequent call
// sees ErrClosed rather than replaying the same error forever.
type AsyncReader struct {
	_ noCopy

	source RawSource

	mu           sync.Mutex
	cond         *sync.Cond
	buf          Buffer
	err          error
	errDelivered bool

	closeOnce sync.Once
	closeCh   chan struct{}
}

// NewAsyncReader starts a background goroutine pulling from source into an
// internal Buffer drawn from DefaultSegmentPool.
func NewAsyncReader(source RawSource) *AsyncReader {
	r := &AsyncReader{source: source, closeCh: make(chan struct{})}
	r.cond = sync.NewCond(&r.mu)
	go r.run()
	return r
}

func (r *AsyncReader) run() {
	for {
		select {
		case <-r.closeCh:
			return
		default:
		}
		var chunk Buffer
		n, err := r.source.ReadInto(&chunk, int64(DefaultSegmentPool().Size()))
		r.mu.Lock()
		if n > 0 {
			_ = r.buf.WriteFrom(&chunk, n)
		}
		if err != nil {
			r.err = err
			r.cond.Broadcast()
			r.mu.Unlock()
			return
		}
		r.cond.Broadcast()
		r.mu.Unlock()
	}
}

// Require blocks until at least n bytes are buffered, the source is
// exhausted (ErrEOF), or the reader is closed (ErrClosed).
func (r *AsyncReader) Require(n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.buf.ByteSize() < n {
		if r.err != nil {
			return r.deliverErrorLocked()
		}
		r.cond.Wait()
	}
	return nil
}

func (r *AsyncReader) deliverErrorLocked() error {
	if r.errDelivered {
		return ErrClosed
	}
	r.errDelivered = true
	if errors.Is(r.err, io.EOF) {
		return ErrEOF
	}
	return r.err
}

// ReadByte consumes and returns one byte.
func (r *AsyncReader) ReadByte() (byte, error) {
	if err := r.Require(1); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.ReadByte()
}

// ReadShort consumes two big-endian bytes.
func (r *AsyncReader) ReadShort() (int16, error) {
	if err := r.Require(2); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.ReadShort()
}

// ReadInt consumes four big-endian bytes.
func (r *AsyncReader) ReadInt() (int32, error) {
	if err := r.Require(4); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.ReadInt()
}

// ReadLong consumes eight big-endian bytes.
func (r *AsyncReader) ReadLong() (int64, error) {
	if err := r.Require(8); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.ReadLong()
}

// ReadByteString consumes and returns the next n bytes.
func (r *AsyncReader) ReadByteString(n int64) (ByteString, error) {
	if err := r.Require(n); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.ReadByteString(n)
}

// ReadLine consumes and returns the next line, waiting for a terminator or
// source exhaustion.
func (r *AsyncReader) ReadLine() (string, error) {
	for {
		r.mu.Lock()
		idx, _ := r.buf.IndexOfByte('\n', 0, r.buf.ByteSize())
		if idx >= 0 {
			line, err := r.buf.ReadLine()
			r.mu.Unlock()
			return line, err
		}
		if r.err != nil {
			err := r.deliverErrorLocked()
			if errors.Is(err, ErrEOF) {
				line, lerr := r.buf.ReadLine()
				r.mu.Unlock()
				return line, lerr
			}
			r.mu.Unlock()
			return "", err
		}
		r.cond.Wait()
		r.mu.Unlock()
	}
}

// Close stops the background goroutine (once it next checks in, or once
// its current source read returns) and closes the source.
func (r *AsyncReader) Close() error {
	r.closeOnce.Do(func() {
		close(r.closeCh)
		r.mu.Lock()
		if r.err == nil {
			r.err = ErrClosed
		}
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	return r.source.Close()
}
