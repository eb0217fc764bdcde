// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"errors"
	"fmt"
)

// Pre-allocated sentinel errors, avoiding allocations on common failure
// paths.
var (
	// ErrEOF indicates a read requires more bytes than the source has left.
	ErrEOF = errors.New("segbuf: end of stream")

	// ErrClosed indicates an operation on a closed Reader, Writer, or Pipe
	// side.
	ErrClosed = errors.New("segbuf: resource closed")

	// ErrCanceled indicates a caller-installed cancellation token fired
	// during a long-running loop.
	ErrCanceled = errors.New("segbuf: canceled")

	// ErrInvalidOptions indicates Options was built from an empty or
	// duplicate-containing alternative set.
	ErrInvalidOptions = errors.New("segbuf: invalid options set")

	// ErrFolded indicates a read was attempted on a Pipe after Fold
	// installed a downstream sink.
	ErrFolded = errors.New("segbuf: pipe folded, reads disabled")
)

// RangeError reports a negative or out-of-bounds offset/count argument.
type RangeError struct {
	Op          string
	Offset, Len int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("segbuf: %s: index out of range (offset=%d len=%d)", e.Op, e.Offset, e.Len)
}

// FormatError reports a malformed decimal/hex/UTF-8 parse, or a numeric
// overflow. Partial carries whatever was successfully parsed before the
// failure and Byte carries the offending byte, so callers can report a
// useful diagnostic.
type FormatError struct {
	Msg     string
	Partial string
	Byte    byte
	HasByte bool
}

func (e *FormatError) Error() string {
	if e.HasByte {
		return fmt.Sprintf("segbuf: %s: partial=%q byte=%#02x", e.Msg, e.Partial, e.Byte)
	}
	return fmt.Sprintf("segbuf: %s: partial=%q", e.Msg, e.Partial)
}

// StateError reports an invariant violation: a programming error that
// should fail fast rather than be recovered from.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return "segbuf: invariant violation: " + e.Msg }

func panicState(msg string) {
	panic(&StateError{Msg: msg})
}
