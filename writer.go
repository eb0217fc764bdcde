// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// BufferedWriter adapts a RawSink to buffered, structured writes: it
// accumulates bytes in an internal Buffer and proactively pushes every
// complete Segment (every Segment but the one still receiving writes) to
// the sink, so memory use stays bounded regardless of how small the
// caller's individual Write calls are (§4.6.2).
type BufferedWriter struct {
	_ noCopy

	sink   RawSink
	buf    Buffer
	closed bool
}

// NewBufferedWriter wraps sink with a buffering layer drawing Segments
// from DefaultSegmentPool.
func NewBufferedWriter(sink RawSink) *BufferedWriter {
	return &BufferedWriter{sink: sink}
}

// Buffer exposes the writer's internal Buffer for direct use; callers that
// write through it directly should call EmitCompleteSegments afterward.
func (w *BufferedWriter) Buffer() *Buffer { return &w.buf }

// EmitCompleteSegments pushes every Segment except the current tail to the
// sink.
func (w *BufferedWriter) EmitCompleteSegments() error {
	tail := w.buf.Tail()
	if tail == nil {
		return nil
	}
	complete := w.buf.ByteSize() - int64(tail.Len())
	if complete <= 0 {
		return nil
	}
	return w.sink.WriteFrom(&w.buf, complete)
}

// Write implements io.Writer.
func (w *BufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	n, err := w.buf.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.EmitCompleteSegments()
}

// WriteString implements io.StringWriter.
func (w *BufferedWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

// WriteByte implements io.ByteWriter.
func (w *BufferedWriter) WriteByte(c byte) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.buf.WriteByte(c); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteShort appends v as two big-endian bytes.
func (w *BufferedWriter) WriteShort(v int16) error {
	if err := w.buf.WriteShort(v); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteInt appends v as four big-endian bytes.
func (w *BufferedWriter) WriteInt(v int32) error {
	if err := w.buf.WriteInt(v); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteLong appends v as eight big-endian bytes.
func (w *BufferedWriter) WriteLong(v int64) error {
	if err := w.buf.WriteLong(v); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteDecimalLong appends v as a base-10 ASCII integer.
func (w *BufferedWriter) WriteDecimalLong(v int64) error {
	if err := w.buf.WriteDecimalLong(v); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteHexadecimalUnsignedLong appends v as a lowercase hexadecimal
// integer.
func (w *BufferedWriter) WriteHexadecimalUnsignedLong(v uint64) error {
	if err := w.buf.WriteHexadecimalUnsignedLong(v); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// WriteUTF8CodePoint appends the UTF-8 encoding of cp.
func (w *BufferedWriter) WriteUTF8CodePoint(cp rune) (int, error) {
	n, err := w.buf.WriteUTF8CodePoint(cp)
	if err != nil {
		return n, err
	}
	return n, w.EmitCompleteSegments()
}

// WriteByteString appends bs, zero-copy when bs is a SegmentedByteString.
func (w *BufferedWriter) WriteByteString(bs ByteString) error {
	if _, err := bs.Write(&w.buf); err != nil {
		return err
	}
	return w.EmitCompleteSegments()
}

// Flush pushes every buffered byte to the sink and flushes the sink.
func (w *BufferedWriter) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if n := w.buf.ByteSize(); n > 0 {
		if err := w.sink.WriteFrom(&w.buf, n); err != nil {
			return err
		}
	}
	return w.sink.Flush()
}

// Close flushes and closes the underlying sink.
func (w *BufferedWriter) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if err != nil {
		_ = w.sink.Close()
		return err
	}
	return w.sink.Close()
}
