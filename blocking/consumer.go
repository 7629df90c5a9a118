// File: blocking/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package blocking

import (
	"iter"
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

var _ api.Consumer[any] = (*Consumer[any])(nil)

// Consumer is the read side. Every successful read signals the producer.
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
		signal(c.rb.writable)
	}
	return item, ok
}

// PopSlice moves up to len(dst) items without waiting.
func (c *Consumer[T]) PopSlice(dst []T) int {
	n := c.base.PopSlice(dst)
	if n > 0 {
		signal(c.rb.writable)
	}
	return n
}

// PopIter yields items until the buffer is empty.
func (c *Consumer[T]) PopIter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := c.TryPop()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Skip drops up to n oldest items.
func (c *Consumer[T]) Skip(n int) int {
	k := c.base.Skip(n)
	if k > 0 {
		signal(c.rb.writable)
	}
	return k
}

// Close releases the consumer and signals both sides.
func (c *Consumer[T]) Close() error {
	err := c.base.Close()
	signal(c.rb.readable)
	signal(c.rb.writable)
	return err
}

// WaitOccupied blocks until at least n items are stored, the producer
// closes, or timeout passes. It reports whether n items are stored. It
// panics if n exceeds the capacity.
func (c *Consumer[T]) WaitOccupied(n int, timeout time.Duration) bool {
	if n > c.Capacity() {
		panic("ring: wait count exceeds capacity")
	}
	return wait(c.rb.clock, c.rb.readable, timeout,
		func() bool { return c.OccupiedLen() >= n },
		c.IsClosed)
}

// Pop waits for an item and removes it. ok is false on timeout or when the
// producer closed and the buffer is drained.
func (c *Consumer[T]) Pop(timeout time.Duration) (T, bool) {
	if c.WaitOccupied(1, timeout) {
		return c.TryPop()
	}
	var zero T
	return zero, false
}

// PopSliceAll fills dst until it is full, the producer closes with the
// buffer drained, or timeout passes, and returns how many items were stored.
func (c *Consumer[T]) PopSliceAll(dst []T, timeout time.Duration) int {
	count := 0
	it := NewTimeoutIterator(c.rb.clock, timeout)
	for count < len(dst) {
		d, ok := it.Next()
		if !ok {
			break
		}
		if c.WaitOccupied(1, d) {
			count += c.PopSlice(dst[count:])
		} else if c.IsClosed() {
			break
		}
	}
	return count
}

// PopAll yields items as they arrive. One deadline covers the whole
// iteration; it stops when that passes or the producer closes and the buffer
// drains.
func (c *Consumer[T]) PopAll(timeout time.Duration) iter.Seq[T] {
	return func(yield func(T) bool) {
		it := NewTimeoutIterator(c.rb.clock, timeout)
		for {
			d, ok := it.Next()
			if !ok || !c.WaitOccupied(1, d) {
				return
			}
			item, _ := c.TryPop()
			if !yield(item) {
				return
			}
		}
	}
}
