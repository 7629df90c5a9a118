// File: blocking/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package blocking

import (
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/internal/iterx"
)

var _ api.Producer[any] = (*Producer[any])(nil)

// Producer is the write side. Every successful write signals the consumer.
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
		signal(p.rb.readable)
	}
	return rejected, ok
}

// PushSlice copies as many items of src as fit without waiting.
func (p *Producer[T]) PushSlice(src []T) int {
	n := p.base.PushSlice(src)
	if n > 0 {
		signal(p.rb.readable)
	}
	return n
}

// PushIter pulls from next while there is room.
func (p *Producer[T]) PushIter(next func() (T, bool)) int {
	n := p.base.PushIter(next)
	if n > 0 {
		signal(p.rb.readable)
	}
	return n
}

// Close releases the producer and signals both sides.
func (p *Producer[T]) Close() error {
	err := p.base.Close()
	signal(p.rb.readable)
	signal(p.rb.writable)
	return err
}

// WaitVacant blocks until at least n slots are free, the consumer closes, or
// timeout passes. It reports whether n slots are free. It panics if n exceeds
// the capacity.
func (p *Producer[T]) WaitVacant(n int, timeout time.Duration) bool {
	if n > p.Capacity() {
		panic("ring: wait count exceeds capacity")
	}
	return wait(p.rb.clock, p.rb.writable, timeout,
		func() bool { return p.VacantLen() >= n },
		p.IsClosed)
}

// Push waits for a free slot and stores item. On failure the item is handed
// back with api.ErrClosed or api.ErrTimeout.
func (p *Producer[T]) Push(item T, timeout time.Duration) (T, error) {
	if p.WaitVacant(1, timeout) {
		if rejected, ok := p.TryPush(item); !ok {
			return rejected, api.ErrTimeout
		}
		var zero T
		return zero, nil
	}
	if p.IsClosed() {
		return item, api.ErrClosed
	}
	return item, api.ErrTimeout
}

// PushSliceAll stores items of src until all are stored, the consumer
// closes, or timeout passes, and returns how many were stored.
func (p *Producer[T]) PushSliceAll(src []T, timeout time.Duration) int {
	count := 0
	it := NewTimeoutIterator(p.rb.clock, timeout)
	for count < len(src) {
		d, ok := it.Next()
		if !ok {
			break
		}
		if p.WaitVacant(1, d) {
			count += p.PushSlice(src[count:])
		} else if p.IsClosed() {
			break
		}
	}
	return count
}

// PushIterAll stores items pulled from next like PushSliceAll. No item is
// pulled that cannot be stored.
func (p *Producer[T]) PushIterAll(next func() (T, bool), timeout time.Duration) int {
	count := 0
	src := iterx.NewPeekable(next)
	it := NewTimeoutIterator(p.rb.clock, timeout)
	for !src.Exhausted() {
		d, ok := it.Next()
		if !ok {
			break
		}
		if p.WaitVacant(1, d) {
			count += p.PushIter(src.Next)
		} else if p.IsClosed() {
			break
		}
	}
	return count
}
