// File: storage/recycled.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recycler reuses slot arrays of one size through sync.Pool so short-lived
// rings do not allocate on every construction.

package storage

import (
	"fmt"
	"sync"
)

// Recycler hands out Recycled storages of a fixed slot count.
type Recycler[T any] struct {
	size int
	pool *sync.Pool
}

// NewRecycler creates a recycler for arrays of n slots.
func NewRecycler[T any](n int) *Recycler[T] {
	if n <= 0 {
		panic(fmt.Sprintf("storage: capacity must be positive, got %d", n))
	}
	return &Recycler[T]{
		size: n,
		pool: &sync.Pool{New: func() any {
			s := make([]T, n)
			return &s
		}},
	}
}

// Size returns the slot count of storages produced by r.
func (r *Recycler[T]) Size() int { return r.size }

// Get returns a storage with every slot holding the zero value.
func (r *Recycler[T]) Get() *Recycled[T] {
	return &Recycled[T]{owner: r, items: r.pool.Get().(*[]T)}
}

func (r *Recycler[T]) put(items *[]T) {
	clear(*items)
	r.pool.Put(items)
}

// Recycled is storage borrowed from a Recycler.
type Recycled[T any] struct {
	owner *Recycler[T]
	items *[]T
}

// Len returns the slot count.
func (s *Recycled[T]) Len() int { return len(*s.items) }

// Slice returns slots [from, to).
func (s *Recycled[T]) Slice(from, to int) []T {
	items := *s.items
	checkRange(from, to, len(items))
	return items[from:to:to]
}

// Release zeroes the slots and returns the array to its recycler.
// The storage must not be used afterwards; releasing twice panics.
func (s *Recycled[T]) Release() {
	if s.items == nil {
		panic("storage: recycled storage released twice")
	}
	s.owner.put(s.items)
	s.items = nil
}
