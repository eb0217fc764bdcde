// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"sync"
)

// pipeState is Pipe's state machine (§4.7). OPEN is the only state in
// which both sides block on each other normally; every other state is
// terminal for at least one side.
type pipeState int

const (
	pipeOpen pipeState = iota
	pipeReaderClosed
	pipeWriterClosed
	pipeFolded
	pipeCanceled
)

// Pipe is a bounded in-memory channel between one producer and one
// consumer goroutine, backed by a shared Buffer instead of an OS pipe
// (§4.7). Writes block while the buffered byte count is at maxBufferSize;
// reads block while the buffer is empty and the writer side is still open.
type Pipe struct {
	_ noCopy

	mu            sync.Mutex
	cond          *sync.Cond
	buf           Buffer
	maxBufferSize int64
	state         pipeState
	foldedSink    RawSink
	cancelErr     error
}

// NewPipe creates a Pipe whose internal Buffer is allowed to grow up to
// maxBufferSize bytes before WriteFrom on its Sink blocks.
func NewPipe(maxBufferSize int64) *Pipe {
	p := &Pipe{maxBufferSize: maxBufferSize, state: pipeOpen}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Source returns the RawSource reading end of the Pipe.
func (p *Pipe) Source() RawSource { return pipeSource{p} }

// Sink returns the RawSink writing end of the Pipe.
func (p *Pipe) Sink() RawSink { return pipeSink{p} }

// Fold installs sink as a direct downstream for the writer side: any bytes
// already buffered are pushed to sink immediately, and every subsequent
// WriteFrom call on the Pipe's Sink writes straight through to it, bypassing this
// Pipe's Buffer entirely. The reader side is disabled (returns ErrFolded).
func (p *Pipe) Fold(sink RawSink) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == pipeCanceled {
		return p.cancelErr
	}
	if p.state == pipeFolded {
		return &StateError{Msg: "Pipe already folded"}
	}
	if n := p.buf.ByteSize(); n > 0 {
		if err := sink.WriteFrom(&p.buf, n); err != nil {
			return err
		}
	}
	p.foldedSink = sink
	p.state = pipeFolded
	p.cond.Broadcast()
	return nil
}

// Cancel puts the Pipe into its terminal CANCELED state: every blocked and
// future call on either side returns err (or ErrCanceled if err is nil).
func (p *Pipe) Cancel(err error) {
	if err == nil {
		err = ErrCanceled
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == pipeCanceled {
		return
	}
	p.state = pipeCanceled
	p.cancelErr = err
	p.cond.Broadcast()
}

type pipeSource struct{ p *Pipe }

func (s pipeSource) ReadInto(dst *Buffer, byteCount int64) (int64, error) {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		switch p.state {
		case pipeCanceled:
			return 0, p.cancelErr
		case pipeFolded:
			return 0, ErrFolded
		case pipeReaderClosed:
			return 0, ErrClosed
		}
		if p.buf.ByteSize() > 0 {
			n := byteCount
			if n > p.buf.ByteSize() {
				n = p.buf.ByteSize()
			}
			if err := dst.WriteFrom(&p.buf, n); err != nil {
				return 0, err
			}
			p.cond.Broadcast()
			return n, nil
		}
		if p.state == pipeWriterClosed {
			return 0, io.EOF
		}
		p.cond.Wait()
	}
}

func (s pipeSource) Close() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == pipeOpen || p.state == pipeWriterClosed {
		p.state = pipeReaderClosed
		p.buf.Clear()
	}
	p.cond.Broadcast()
	return nil
}

type pipeSink struct{ p *Pipe }

func (s pipeSink) WriteFrom(src *Buffer, byteCount int64) error {
	p := s.p
	remaining := byteCount
	for remaining > 0 {
		p.mu.Lock()
		switch p.state {
		case pipeCanceled:
			err := p.cancelErr
			p.mu.Unlock()
			return err
		case pipeReaderClosed:
			p.mu.Unlock()
			return ErrClosed
		case pipeWriterClosed:
			p.mu.Unlock()
			return &StateError{Msg: "write to closed Pipe sink"}
		case pipeFolded:
			sink := p.foldedSink
			p.mu.Unlock()
			return sink.WriteFrom(src, remaining)
		}
		if p.buf.ByteSize() >= p.maxBufferSize {
			p.cond.Wait()
			p.mu.Unlock()
			continue
		}
		take := p.maxBufferSize - p.buf.ByteSize()
		if take > remaining {
			take = remaining
		}
		if err := p.buf.WriteFrom(src, take); err != nil {
			p.mu.Unlock()
			return err
		}
		remaining -= take
		p.cond.Broadcast()
		p.mu.Unlock()
	}
	return nil
}

func (s pipeSink) Flush() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cond.Broadcast()
	return nil
}

func (s pipeSink) Close() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == pipeOpen {
		p.state = pipeWriterClosed
	}
	p.cond.Broadcast()
	return nil
}
