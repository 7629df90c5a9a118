// File: async/rb.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// Rb is a ring buffer with a waker slot per direction.
type Rb[T any] struct {
	base *ring.Rb[T]
	// read is woken when items arrive or the producer closes.
	read AtomicWaker
	// write is woken when slots free up or the consumer closes.
	write AtomicWaker
}

// New allocates a buffer of the given capacity.
func New[T any](capacity int) *Rb[T] {
	return &Rb[T]{base: ring.New[T](capacity)}
}

// NewWithStorage builds a buffer over s.
func NewWithStorage[T any](s api.Storage[T]) *Rb[T] {
	return &Rb[T]{base: ring.NewWithStorage(s)}
}

// Wrap adds waker slots to an existing unsplit buffer.
func Wrap[T any](base *ring.Rb[T]) *Rb[T] {
	return &Rb[T]{base: base}
}

// Observer returns a read-only view of the buffer.
func (r *Rb[T]) Observer() *ring.Observer[T] { return r.base.Observer() }

// Split returns the producer and consumer handles. It panics when called twice.
func (r *Rb[T]) Split() (*Producer[T], *Consumer[T]) {
	p, c := r.base.Split()
	return &Producer[T]{rb: r, base: p}, &Consumer[T]{rb: r, base: c}
}
