// File: core/ring/halves.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer and Consumer handles. Each exposes one side of the protocol and
// holds one reference to the shared buffer. Closing a handle marks its side
// closed for the opposite handle; the last Close clears remaining items.

package ring

import (
	"iter"
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ api.Producer[any] = (*Producer[any])(nil)
	_ api.Consumer[any] = (*Consumer[any])(nil)
	_ api.Observer      = (*Observer[any])(nil)
)

// Split turns r into its two handles. It may be called once; a second call
// panics. After Split, r itself must only be used through an Observer.
func (r *Rb[T]) Split() (*Producer[T], *Consumer[T]) {
	if !r.split.CompareAndSwap(false, true) {
		panic("ring: buffer already split")
	}
	r.refs.Store(2)
	return &Producer[T]{rb: r}, &Consumer[T]{rb: r}
}

// Observer returns a read-only view usable from any goroutine.
func (r *Rb[T]) Observer() *Observer[T] { return &Observer[T]{rb: r} }

func (r *Rb[T]) release() {
	if r.refs.Add(-1) == 0 {
		r.clear()
	}
}

// Observer is a read-only handle. Its lengths are best-effort estimates when
// read concurrently with the producer or consumer.
type Observer[T any] struct {
	rb *Rb[T]
}

func (o *Observer[T]) Capacity() int      { return o.rb.Capacity() }
func (o *Observer[T]) ReadIndex() uint64  { return o.rb.ReadIndex() }
func (o *Observer[T]) WriteIndex() uint64 { return o.rb.WriteIndex() }
func (o *Observer[T]) OccupiedLen() int   { return int(o.rb.estimate()) }
func (o *Observer[T]) VacantLen() int     { return int(o.rb.capacity - o.rb.estimate()) }
func (o *Observer[T]) IsEmpty() bool      { return o.OccupiedLen() == 0 }
func (o *Observer[T]) IsFull() bool       { return o.VacantLen() == 0 }

// ProducerClosed reports whether the producer handle was closed.
func (o *Observer[T]) ProducerClosed() bool { return o.rb.prodClosed.Load() }

// ConsumerClosed reports whether the consumer handle was closed.
func (o *Observer[T]) ConsumerClosed() bool { return o.rb.consClosed.Load() }

// unsplit guards the operations that move both cursors.
func (r *Rb[T]) unsplit() {
	if r.split.Load() {
		panic("ring: buffer is split; use its handles")
	}
}

// Producer owns the write counter of a split buffer.
type Producer[T any] struct {
	rb     *Rb[T]
	closed atomic.Bool
}

func (p *Producer[T]) Capacity() int      { return p.rb.Capacity() }
func (p *Producer[T]) ReadIndex() uint64  { return p.rb.ReadIndex() }
func (p *Producer[T]) WriteIndex() uint64 { return p.rb.WriteIndex() }

// Lengths are exact for the owning goroutine and clamped estimates for any
// other reader of the handle.
func (p *Producer[T]) OccupiedLen() int { return int(p.rb.estimate()) }
func (p *Producer[T]) VacantLen() int   { return int(p.rb.capacity - p.rb.estimate()) }
func (p *Producer[T]) IsEmpty() bool    { return p.OccupiedLen() == 0 }
func (p *Producer[T]) IsFull() bool     { return p.VacantLen() == 0 }

// TryPush adds item; returns it back with ok == false if full.
func (p *Producer[T]) TryPush(item T) (T, bool) { return p.rb.TryPush(item) }

// PushSlice copies as many leading items of src as fit.
func (p *Producer[T]) PushSlice(src []T) int { return p.rb.PushSlice(src) }

// PushIter pulls from next while there is room.
func (p *Producer[T]) PushIter(next func() (T, bool)) int { return p.rb.PushIter(next) }

// VacantSlices exposes free slots for in-place writes; see AdvanceWrite.
func (p *Producer[T]) VacantSlices() (head, tail []T) { return p.rb.VacantSlices() }

// AdvanceWrite publishes n items written into VacantSlices.
func (p *Producer[T]) AdvanceWrite(n int) { p.rb.AdvanceWrite(n) }

// IsClosed reports whether the consumer was closed.
func (p *Producer[T]) IsClosed() bool { return p.rb.consClosed.Load() }

// Observer returns a read-only view of the buffer.
func (p *Producer[T]) Observer() *Observer[T] { return p.rb.Observer() }

// Close releases the producer. Stored items stay readable by the consumer.
func (p *Producer[T]) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.rb.prodClosed.Store(true)
		p.rb.release()
	}
	return nil
}

// Consumer owns the read counter of a split buffer.
type Consumer[T any] struct {
	rb     *Rb[T]
	closed atomic.Bool
}

func (c *Consumer[T]) Capacity() int      { return c.rb.Capacity() }
func (c *Consumer[T]) ReadIndex() uint64  { return c.rb.ReadIndex() }
func (c *Consumer[T]) WriteIndex() uint64 { return c.rb.WriteIndex() }

// Lengths are exact for the owning goroutine and clamped estimates for any
// other reader of the handle.
func (c *Consumer[T]) OccupiedLen() int { return int(c.rb.estimate()) }
func (c *Consumer[T]) VacantLen() int   { return int(c.rb.capacity - c.rb.estimate()) }
func (c *Consumer[T]) IsEmpty() bool    { return c.OccupiedLen() == 0 }
func (c *Consumer[T]) IsFull() bool     { return c.VacantLen() == 0 }

// TryPop removes the oldest item; ok false if empty.
func (c *Consumer[T]) TryPop() (T, bool) { return c.rb.TryPop() }

// Peek returns the oldest item without removing it.
func (c *Consumer[T]) Peek() (T, bool) { return c.rb.Peek() }

// PopSlice moves up to len(dst) items into dst.
func (c *Consumer[T]) PopSlice(dst []T) int { return c.rb.PopSlice(dst) }

// PopIter yields items until the buffer is empty.
func (c *Consumer[T]) PopIter() iter.Seq[T] { return c.rb.PopIter() }

// Skip drops up to n oldest items.
func (c *Consumer[T]) Skip(n int) int { return c.rb.Skip(n) }

// Clear drops every stored item.
func (c *Consumer[T]) Clear() int { return c.rb.clear() }

// OccupiedSlices exposes stored items in place; see AdvanceRead.
func (c *Consumer[T]) OccupiedSlices() (head, tail []T) { return c.rb.OccupiedSlices() }

// AdvanceRead drops the n oldest items after in-place reads.
func (c *Consumer[T]) AdvanceRead(n int) { c.rb.AdvanceRead(n) }

// IsClosed reports whether the producer was closed.
func (c *Consumer[T]) IsClosed() bool { return c.rb.prodClosed.Load() }

// Observer returns a read-only view of the buffer.
func (c *Consumer[T]) Observer() *Observer[T] { return c.rb.Observer() }

// Close releases the consumer. It does not drain the buffer; the producer
// observes the closure and stops.
func (c *Consumer[T]) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.rb.consClosed.Store(true)
		c.rb.release()
	}
	return nil
}
