// File: blocking/rb.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package blocking

import (
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// Option configures a blocking buffer.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock sets the time source. Defaults to a StdClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// Rb is a ring buffer whose sides can block with a timeout.
type Rb[T any] struct {
	base  *ring.Rb[T]
	clock Clock
	// readable is signalled when items arrive or the producer closes.
	readable chan struct{}
	// writable is signalled when slots free up or the consumer closes.
	writable chan struct{}
}

// New allocates a buffer of the given capacity.
func New[T any](capacity int, opts ...Option) *Rb[T] {
	return Wrap(ring.New[T](capacity), opts...)
}

// NewWithStorage builds a buffer over s.
func NewWithStorage[T any](s api.Storage[T], opts ...Option) *Rb[T] {
	return Wrap(ring.NewWithStorage(s), opts...)
}

// Wrap adds blocking waits to an existing unsplit buffer.
func Wrap[T any](base *ring.Rb[T], opts ...Option) *Rb[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewStdClock()
	}
	return &Rb[T]{
		base:     base,
		clock:    o.clock,
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

// Observer returns a read-only view of the buffer.
func (r *Rb[T]) Observer() *ring.Observer[T] { return r.base.Observer() }

// Split returns the producer and consumer handles. It panics when called twice.
func (r *Rb[T]) Split() (*Producer[T], *Consumer[T]) {
	p, c := r.base.Split()
	return &Producer[T]{rb: r, base: p}, &Consumer[T]{rb: r, base: c}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// wait parks on sig until ready reports true, closed reports true, or the
// timeout runs out. It returns the final result of ready.
func wait(clock Clock, sig <-chan struct{}, timeout time.Duration, ready, closed func() bool) bool {
	if ready() {
		return true
	}
	it := NewTimeoutIterator(clock, timeout)
	for {
		d, ok := it.Next()
		if !ok {
			return ready()
		}
		if ready() {
			return true
		}
		if closed() {
			return ready()
		}
		clock.Park(d, sig)
	}
}
