// File: async/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"context"
	"errors"
	"iter"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

var _ api.Consumer[any] = (*Consumer[any])(nil)

// Consumer is the read side. Every successful read wakes the producer.
type Consumer[T any] struct {
	rb   *Rb[T]
	base *ring.Consumer[T]
}

func (c *Consumer[T]) Capacity() int      { return c.base.Capacity() }
func (c *Consumer[T]) ReadIndex() uint64  { return c.base.ReadIndex() }
func (c *Consumer[T]) WriteIndex() uint64 { return c.base.WriteIndex() }
func (c *Consumer[T]) OccupiedLen() int   { return c.base.OccupiedLen() }
func (c *Consumer[T]) VacantLen() int     { return c.base.VacantLen() }
func (c *Consumer[T]) IsEmpty() bool      { return c.base.IsEmpty() }
func (c *Consumer[T]) IsFull() bool       { return c.base.IsFull() }

// IsClosed reports whether the producer is gone.
func (c *Consumer[T]) IsClosed() bool { return c.base.IsClosed() }

// Observer returns a read-only view of the buffer.
func (c *Consumer[T]) Observer() *ring.Observer[T] { return c.base.Observer() }

// TryPop removes the oldest item without waiting.
func (c *Consumer[T]) TryPop() (T, bool) {
	item, ok := c.base.TryPop()
	if ok {
		c.rb.write.Wake()
	}
	return item, ok
}

// PopSlice moves up to len(dst) items without waiting.
func (c *Consumer[T]) PopSlice(dst []T) int {
	n := c.base.PopSlice(dst)
	if n > 0 {
		c.rb.write.Wake()
	}
	return n
}

// PopIter yields items until the buffer is empty. The producer is woken once
// iteration stops.
func (c *Consumer[T]) PopIter() iter.Seq[T] {
	return func(yield func(T) bool) {
		n := 0
		defer func() {
			if n > 0 {
				c.rb.write.Wake()
			}
		}()
		for item := range c.base.PopIter() {
			n++
			if !yield(item) {
				return
			}
		}
	}
}

// Skip drops up to n oldest items.
func (c *Consumer[T]) Skip(n int) int {
	k := c.base.Skip(n)
	if k > 0 {
		c.rb.write.Wake()
	}
	return k
}

// Clear drops every stored item.
func (c *Consumer[T]) Clear() int {
	k := c.base.Clear()
	if k > 0 {
		c.rb.write.Wake()
	}
	return k
}

// OccupiedSlices exposes stored items in place; see AdvanceRead.
func (c *Consumer[T]) OccupiedSlices() (head, tail []T) { return c.base.OccupiedSlices() }

// AdvanceRead drops the n oldest items after in-place reads.
func (c *Consumer[T]) AdvanceRead(n int) {
	c.base.AdvanceRead(n)
	if n > 0 {
		c.rb.write.Wake()
	}
}

// RegisterWaker sets the waker signalled when items arrive or the producer
// closes.
func (c *Consumer[T]) RegisterWaker(w api.Waker) { c.rb.read.Register(w) }

// Close releases the consumer and wakes both sides.
func (c *Consumer[T]) Close() error {
	err := c.base.Close()
	c.rb.read.Wake()
	c.rb.write.Wake()
	return err
}

// Pop returns a future resolving with the oldest item, or api.ErrClosed once
// the producer is gone and the buffer is empty.
func (c *Consumer[T]) Pop() *PopFuture[T] {
	return &PopFuture[T]{c: c}
}

// WaitOccupied returns a future resolving once at least n items are stored.
// It panics if n exceeds the capacity.
func (c *Consumer[T]) WaitOccupied(n int) *WaitOccupiedFuture[T] {
	if n > c.Capacity() {
		panic("ring: wait count exceeds capacity")
	}
	return &WaitOccupiedFuture[T]{c: c, n: n}
}

// PopSliceAll returns a future filling all of dst. It resolves with len(dst)
// or, when the producer closes, the partial count and api.ErrClosed.
func (c *Consumer[T]) PopSliceAll(dst []T) *PopSliceFuture[T] {
	return &PopSliceFuture[T]{c: c, dst: dst}
}

// PollNext is the stream form of Pop: it may be polled again after each item.
// It returns api.ErrClosed once the producer is gone and the buffer is drained.
func (c *Consumer[T]) PollNext(cx *Context) (T, error) {
	c.RegisterWaker(cx.Waker())
	closed := c.IsClosed()
	if item, ok := c.TryPop(); ok {
		return item, nil
	}
	var zero T
	if closed {
		return zero, api.ErrClosed
	}
	return zero, api.ErrPending
}

// Items yields items as they arrive until the producer closes and the buffer
// drains, or ctx is done.
func (c *Consumer[T]) Items(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		next := FutureFunc[T](c.PollNext)
		for {
			item, err := Await[T](ctx, next)
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// PopFuture removes one item.
type PopFuture[T any] struct {
	once
	c *Consumer[T]
}

func (f *PopFuture[T]) Poll(cx *Context) (T, error) {
	f.check()
	item, err := f.c.PollNext(cx)
	if !errors.Is(err, api.ErrPending) {
		f.done = true
	}
	return item, err
}

// WaitOccupiedFuture waits for stored items.
type WaitOccupiedFuture[T any] struct {
	once
	c *Consumer[T]
	n int
}

// Poll resolves once n items are stored, or with api.ErrClosed if the
// producer closed before that.
func (f *WaitOccupiedFuture[T]) Poll(cx *Context) (struct{}, error) {
	f.check()
	f.c.RegisterWaker(cx.Waker())
	closed := f.c.IsClosed()
	if f.c.OccupiedLen() >= f.n {
		f.done = true
		return struct{}{}, nil
	}
	if closed {
		f.done = true
		return struct{}{}, api.ErrClosed
	}
	return struct{}{}, api.ErrPending
}

// PopSliceFuture fills a whole slice.
type PopSliceFuture[T any] struct {
	once
	c     *Consumer[T]
	dst   []T
	count int
}

// Poll returns the number of items received so far with api.ErrPending, and
// the final count when resolved.
func (f *PopSliceFuture[T]) Poll(cx *Context) (int, error) {
	f.check()
	f.c.RegisterWaker(cx.Waker())
	closed := f.c.IsClosed()
	f.count += f.c.PopSlice(f.dst[f.count:])
	if f.count == len(f.dst) {
		f.done = true
		return f.count, nil
	}
	if closed {
		f.done = true
		return f.count, api.ErrClosed
	}
	return f.count, api.ErrPending
}
