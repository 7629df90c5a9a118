// File: async/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Byte stream adapters over split byte buffers.

package async

import (
	"context"
	"io"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ io.ReadCloser  = (*Reader)(nil)
	_ io.WriteCloser = (*Writer)(nil)
)

// Reader reads bytes from a consumer.
type Reader struct {
	ctx context.Context
	c   *Consumer[byte]
}

// NewReader wraps c. Blocking reads give up when ctx is done.
func NewReader(ctx context.Context, c *Consumer[byte]) *Reader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Reader{ctx: ctx, c: c}
}

// PollRead copies available bytes into p. It returns io.EOF once the producer
// is gone and the buffer is drained, and api.ErrPending when nothing is
// available yet.
func (r *Reader) PollRead(cx *Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.c.RegisterWaker(cx.Waker())
	closed := r.c.IsClosed()
	if n := r.c.PopSlice(p); n > 0 {
		return n, nil
	}
	if closed {
		return 0, io.EOF
	}
	return 0, api.ErrPending
}

// Read waits until at least one byte is available.
func (r *Reader) Read(p []byte) (int, error) {
	return Await[int](r.ctx, FutureFunc[int](func(cx *Context) (int, error) {
		return r.PollRead(cx, p)
	}))
}

// Close releases the consumer.
func (r *Reader) Close() error { return r.c.Close() }

// Writer writes bytes into a producer.
type Writer struct {
	ctx context.Context
	p   *Producer[byte]
}

// NewWriter wraps p. Blocking writes give up when ctx is done.
func NewWriter(ctx context.Context, p *Producer[byte]) *Writer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Writer{ctx: ctx, p: p}
}

// PollWrite stores as many bytes of b as fit. It returns io.ErrClosedPipe
// once the consumer is gone and api.ErrPending when the buffer is full.
func (w *Writer) PollWrite(cx *Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	w.p.RegisterWaker(cx.Waker())
	if w.p.IsClosed() {
		return 0, io.ErrClosedPipe
	}
	if n := w.p.PushSlice(b); n > 0 {
		return n, nil
	}
	return 0, api.ErrPending
}

// Write stores all of b, waiting for room as needed.
func (w *Writer) Write(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		n, err := Await[int](w.ctx, FutureFunc[int](func(cx *Context) (int, error) {
			return w.PollWrite(cx, b[written:])
		}))
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Close releases the producer.
func (w *Writer) Close() error { return w.p.Close() }
