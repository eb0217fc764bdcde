// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"errors"
	"io"
)

// BufferedReader adapts a RawSource to buffered, structured reads: it fills
// an internal Buffer from the source in SegmentSize-ish chunks and serves
// Require/Read* calls from it, only touching the source again once the
// buffer runs short (§4.6.1).
type BufferedReader struct {
	_ noCopy

	source RawSource
	buf    Buffer
	cancel CancelToken
	closed bool
}

// NewBufferedReader wraps source with a buffering layer drawing Segments
// from DefaultSegmentPool.
func NewBufferedReader(source RawSource) *BufferedReader {
	return &BufferedReader{source: source, cancel: NoCancellation}
}

// SetCancelToken installs the CancelToken consulted between fill steps.
func (r *BufferedReader) SetCancelToken(c CancelToken) {
	if c == nil {
		c = NoCancellation
	}
	r.cancel = c
}

// Buffer exposes the reader's internal Buffer for direct use once enough
// bytes have been Required.
func (r *BufferedReader) Buffer() *Buffer { return &r.buf }

// fill pulls from the source until the internal Buffer holds at least
// atLeast bytes, or the source is exhausted.
func (r *BufferedReader) fill(atLeast int64) error {
	for r.buf.ByteSize() < atLeast {
		if r.closed {
			return ErrClosed
		}
		if r.cancel.Canceled() {
			return ErrCanceled
		}
		request := atLeast - r.buf.ByteSize()
		if request < int64(r.buf.pool().Size()) {
			request = int64(r.buf.pool().Size())
		}
		n, err := r.source.ReadInto(&r.buf, request)
		if n == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return ErrEOF
			}
			return err
		}
	}
	return nil
}

// Require ensures at least n bytes are buffered, filling from the source as
// needed. Returns ErrEOF if the source is exhausted first.
func (r *BufferedReader) Require(n int64) error { return r.fill(n) }

// Request is Require without an error for the ordinary EOF case: it
// reports whether n bytes are now buffered.
func (r *BufferedReader) Request(n int64) (bool, error) {
	err := r.fill(n)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrEOF):
		return false, nil
	default:
		return false, err
	}
}

// Exhausted reports whether the source and internal buffer are both empty.
func (r *BufferedReader) Exhausted() bool {
	ok, _ := r.Request(1)
	return !ok
}

// ReadByte consumes and returns one byte.
func (r *BufferedReader) ReadByte() (byte, error) {
	if err := r.fill(1); err != nil {
		return 0, err
	}
	return r.buf.ReadByte()
}

// ReadShort consumes two big-endian bytes.
func (r *BufferedReader) ReadShort() (int16, error) {
	if err := r.fill(2); err != nil {
		return 0, err
	}
	return r.buf.ReadShort()
}

// ReadInt consumes four big-endian bytes.
func (r *BufferedReader) ReadInt() (int32, error) {
	if err := r.fill(4); err != nil {
		return 0, err
	}
	return r.buf.ReadInt()
}

// ReadLong consumes eight big-endian bytes.
func (r *BufferedReader) ReadLong() (int64, error) {
	if err := r.fill(8); err != nil {
		return 0, err
	}
	return r.buf.ReadLong()
}

// ReadByteString consumes and returns the next n bytes.
func (r *BufferedReader) ReadByteString(n int64) (ByteString, error) {
	if err := r.fill(n); err != nil {
		return nil, err
	}
	return r.buf.ReadByteString(n)
}

// ReadLine consumes and returns the next line, filling from the source
// until a terminator is found or the source is exhausted.
func (r *BufferedReader) ReadLine() (string, error) {
	for {
		idx, _ := r.buf.IndexOfByte('\n', 0, r.buf.ByteSize())
		if idx >= 0 {
			return r.buf.ReadLine()
		}
		scanned := r.buf.ByteSize()
		if err := r.fill(scanned + 1); err != nil {
			if errors.Is(err, ErrEOF) {
				return r.buf.ReadLine()
			}
			return "", err
		}
	}
}

// ReadLineStrict is ReadLine, but requires a terminator before the source
// is exhausted.
func (r *BufferedReader) ReadLineStrict() (string, error) {
	for {
		idx, _ := r.buf.IndexOfByte('\n', 0, r.buf.ByteSize())
		if idx >= 0 {
			return r.buf.ReadLineStrict()
		}
		scanned := r.buf.ByteSize()
		if err := r.fill(scanned + 1); err != nil {
			return "", err
		}
	}
}

// IndexOf returns the first offset of target across the whole unread
// source, filling ahead as needed, or -1 at EOF without a match.
func (r *BufferedReader) IndexOf(target byte) (int64, error) {
	var scanned int64
	for {
		idx, err := r.buf.IndexOfByte(target, scanned, r.buf.ByteSize())
		if err != nil {
			return -1, err
		}
		if idx >= 0 {
			return idx, nil
		}
		scanned = r.buf.ByteSize()
		if err := r.fill(scanned + 1); err != nil {
			if errors.Is(err, ErrEOF) {
				return -1, nil
			}
			return -1, err
		}
	}
}

// Select matches and consumes the longest option at the front of the
// stream, filling ahead as needed.
func (r *BufferedReader) Select(opts *Options) (int, error) {
	longest := 0
	for i := 0; i < opts.Len(); i++ {
		if n := opts.Get(i).Len(); n > longest {
			longest = n
		}
	}
	if err := r.fill(int64(longest)); err != nil && !errors.Is(err, ErrEOF) {
		return -1, err
	}
	return r.buf.Select(opts)
}

// ReadAll copies every remaining byte to dst, bypassing the internal
// buffer once it is drained, and returns the total copied.
func (r *BufferedReader) ReadAll(dst *Buffer) (int64, error) {
	var total int64
	if n := r.buf.ByteSize(); n > 0 {
		if err := dst.WriteFrom(&r.buf, n); err != nil {
			return total, err
		}
		total += n
	}
	for {
		n, err := r.source.ReadInto(dst, int64(dst.pool().Size()))
		total += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
}

// Close closes the underlying source and releases buffered Segments.
func (r *BufferedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.buf.Clear()
	return r.source.Close()
}
