// File: async/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/internal/iterx"
)

var _ api.Producer[any] = (*Producer[any])(nil)

// Producer is the write side. Every successful write wakes the consumer.
type Producer[T any] struct {
	rb   *Rb[T]
	base *ring.Producer[T]
}

func (p *Producer[T]) Capacity() int      { return p.base.Capacity() }
func (p *Producer[T]) ReadIndex() uint64  { return p.base.ReadIndex() }
func (p *Producer[T]) WriteIndex() uint64 { return p.base.WriteIndex() }
func (p *Producer[T]) OccupiedLen() int   { return p.base.OccupiedLen() }
func (p *Producer[T]) VacantLen() int     { return p.base.VacantLen() }
func (p *Producer[T]) IsEmpty() bool      { return p.base.IsEmpty() }
func (p *Producer[T]) IsFull() bool       { return p.base.IsFull() }

// IsClosed reports whether the consumer is gone.
func (p *Producer[T]) IsClosed() bool { return p.base.IsClosed() }

// Observer returns a read-only view of the buffer.
func (p *Producer[T]) Observer() *ring.Observer[T] { return p.base.Observer() }

// TryPush appends item without waiting.
func (p *Producer[T]) TryPush(item T) (T, bool) {
	rejected, ok := p.base.TryPush(item)
	if ok {
		p.rb.read.Wake()
	}
	return rejected, ok
}

// PushSlice copies as many items of src as fit without waiting.
func (p *Producer[T]) PushSlice(src []T) int {
	n := p.base.PushSlice(src)
	if n > 0 {
		p.rb.read.Wake()
	}
	return n
}

// PushIter pulls from next while there is room.
func (p *Producer[T]) PushIter(next func() (T, bool)) int {
	n := p.base.PushIter(next)
	if n > 0 {
		p.rb.read.Wake()
	}
	return n
}

// VacantSlices exposes free slots for in-place writes; see AdvanceWrite.
func (p *Producer[T]) VacantSlices() (head, tail []T) { return p.base.VacantSlices() }

// AdvanceWrite publishes n slots written through VacantSlices.
func (p *Producer[T]) AdvanceWrite(n int) {
	p.base.AdvanceWrite(n)
	if n > 0 {
		p.rb.read.Wake()
	}
}

// RegisterWaker sets the waker signalled when slots free up or the consumer
// closes.
func (p *Producer[T]) RegisterWaker(w api.Waker) { p.rb.write.Register(w) }

// Close releases the producer and wakes both sides.
func (p *Producer[T]) Close() error {
	err := p.base.Close()
	p.rb.read.Wake()
	p.rb.write.Wake()
	return err
}

// Push returns a future that stores item once a slot is free. If the consumer
// closes first the item is handed back with api.ErrClosed.
func (p *Producer[T]) Push(item T) *PushFuture[T] {
	return &PushFuture[T]{p: p, item: item}
}

// WaitVacant returns a future resolving once at least n slots are free.
// It panics if n exceeds the capacity.
func (p *Producer[T]) WaitVacant(n int) *WaitVacantFuture[T] {
	if n > p.Capacity() {
		panic("ring: wait count exceeds capacity")
	}
	return &WaitVacantFuture[T]{p: p, n: n}
}

// PushSliceAll returns a future copying all of src. It resolves with
// len(src) or, on consumer closure, the partial count and api.ErrClosed.
func (p *Producer[T]) PushSliceAll(src []T) *PushSliceFuture[T] {
	return &PushSliceFuture[T]{p: p, src: src}
}

// PushIterAll returns a future pushing every item of next. It resolves when
// next is exhausted, or with api.ErrClosed when the consumer goes away.
func (p *Producer[T]) PushIterAll(next func() (T, bool)) *PushIterFuture[T] {
	return &PushIterFuture[T]{p: p, src: iterx.NewPeekable(next)}
}

// PushFuture stores one item.
type PushFuture[T any] struct {
	once
	p    *Producer[T]
	item T
}

// Poll resolves with the zero value on success or the item and api.ErrClosed.
func (f *PushFuture[T]) Poll(cx *Context) (T, error) {
	f.check()
	var zero T
	f.p.RegisterWaker(cx.Waker())
	if f.p.IsClosed() {
		f.done = true
		return f.item, api.ErrClosed
	}
	rejected, ok := f.p.TryPush(f.item)
	if ok {
		f.done = true
		f.item = zero
		return zero, nil
	}
	f.item = rejected
	return zero, api.ErrPending
}

// WaitVacantFuture waits for free slots.
type WaitVacantFuture[T any] struct {
	once
	p *Producer[T]
	n int
}

// Poll resolves once n slots are free, or with api.ErrClosed if the consumer
// closed before that.
func (f *WaitVacantFuture[T]) Poll(cx *Context) (struct{}, error) {
	f.check()
	f.p.RegisterWaker(cx.Waker())
	closed := f.p.IsClosed()
	if f.p.VacantLen() >= f.n {
		f.done = true
		return struct{}{}, nil
	}
	if closed {
		f.done = true
		return struct{}{}, api.ErrClosed
	}
	return struct{}{}, api.ErrPending
}

// PushSliceFuture copies a whole slice.
type PushSliceFuture[T any] struct {
	once
	p     *Producer[T]
	src   []T
	count int
}

// Poll returns the number of items stored so far with api.ErrPending, and the
// final count when resolved.
func (f *PushSliceFuture[T]) Poll(cx *Context) (int, error) {
	f.check()
	f.p.RegisterWaker(cx.Waker())
	if f.p.IsClosed() {
		f.done = true
		return f.count, api.ErrClosed
	}
	f.count += f.p.PushSlice(f.src[f.count:])
	if f.count == len(f.src) {
		f.done = true
		return f.count, nil
	}
	return f.count, api.ErrPending
}

// PushIterFuture drains a pull-style source into the buffer.
type PushIterFuture[T any] struct {
	once
	p     *Producer[T]
	src   *iterx.Peekable[T]
	count int
}

// Poll returns the number of items stored so far.
func (f *PushIterFuture[T]) Poll(cx *Context) (int, error) {
	f.check()
	f.p.RegisterWaker(cx.Waker())
	if f.p.IsClosed() {
		f.done = true
		return f.count, api.ErrClosed
	}
	f.count += f.p.PushIter(f.src.Next)
	if f.src.Exhausted() {
		f.done = true
		return f.count, nil
	}
	return f.count, api.ErrPending
}
