// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// RawSource is the minimal contract a collaborator (file, socket, TLS
// session, compressor) implements to feed bytes into a Buffer. It is the
// engine's only extension point for actual I/O; this package ships no
// concrete RawSource (no file/socket/TLS/compression implementations,
// per its non-goals).
type RawSource interface {
	// ReadInto appends up to byteCount bytes to dst, returning the number
	// of bytes appended. It returns (0, io.EOF) once exhausted.
	ReadInto(dst *Buffer, byteCount int64) (int64, error)
	// Close releases any resources held by the source.
	Close() error
}

// RawSink is the minimal contract a collaborator implements to drain
// bytes out of a Buffer.
type RawSink interface {
	// WriteFrom consumes exactly byteCount bytes from src.
	WriteFrom(src *Buffer, byteCount int64) error
	// Flush pushes any buffered bytes to their destination.
	Flush() error
	// Close flushes and releases any resources held by the sink.
	Close() error
}

// CancelToken is the engine's entire cancellation surface: a single
// poll-for-cancellation check that BufferedReader's fill loop consults
// between I/O steps. Pipe does not consult a CancelToken; it is stopped
// through Pipe.Cancel instead. It is not a
// general timeout or deadline framework; callers that need time-based
// cancellation build it on top by implementing Canceled however they see
// fit (a context.Context's Done channel, a deadline comparison, an atomic
// flag set by a signal handler).
type CancelToken interface {
	// Canceled reports whether the operation in progress should abort.
	Canceled() bool
}

// neverCancel is the zero-cost CancelToken used when a caller supplies
// none.
type neverCancel struct{}

func (neverCancel) Canceled() bool { return false }

// NoCancellation is a CancelToken that never fires.
var NoCancellation CancelToken = neverCancel{}
