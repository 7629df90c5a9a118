// File: blocking/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Byte stream adapters with a per-call timeout.

package blocking

import (
	"io"
	"time"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ io.ReadCloser  = (*Reader)(nil)
	_ io.WriteCloser = (*Writer)(nil)
)

// Reader reads bytes from a consumer.
type Reader struct {
	c       *Consumer[byte]
	timeout time.Duration
}

// NewReader wraps c with no timeout.
func NewReader(c *Consumer[byte]) *Reader {
	return &Reader{c: c, timeout: Forever}
}

// SetTimeout bounds each Read call. Forever disables the bound.
func (r *Reader) SetTimeout(d time.Duration) { r.timeout = d }

// Read waits for at least one byte. It returns io.EOF once the producer is
// gone and the buffer is drained, and api.ErrTimeout if nothing arrived in
// time.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !r.c.WaitOccupied(1, r.timeout) {
		if r.c.IsClosed() {
			return 0, io.EOF
		}
		return 0, api.ErrTimeout
	}
	return r.c.PopSlice(p), nil
}

// Close releases the consumer.
func (r *Reader) Close() error { return r.c.Close() }

// Writer writes bytes into a producer.
type Writer struct {
	p       *Producer[byte]
	timeout time.Duration
}

// NewWriter wraps p with no timeout.
func NewWriter(p *Producer[byte]) *Writer {
	return &Writer{p: p, timeout: Forever}
}

// SetTimeout bounds each Write call. Forever disables the bound.
func (w *Writer) SetTimeout(d time.Duration) { w.timeout = d }

// Write stores all of b. A short write returns io.ErrClosedPipe when the
// consumer is gone and api.ErrTimeout otherwise.
func (w *Writer) Write(b []byte) (int, error) {
	if w.p.IsClosed() {
		return 0, io.ErrClosedPipe
	}
	n := w.p.PushSliceAll(b, w.timeout)
	if n == len(b) {
		return n, nil
	}
	if w.p.IsClosed() {
		return n, io.ErrClosedPipe
	}
	return n, api.ErrTimeout
}

// Close releases the producer.
func (w *Writer) Close() error { return w.p.Close() }
