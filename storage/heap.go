// File: storage/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package storage

import (
	"fmt"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ api.Storage[any] = (*Heap[any])(nil)
	_ api.Storage[any] = (*Borrowed[any])(nil)
)

// Heap is storage allocated once at construction.
type Heap[T any] struct {
	items []T
}

// NewHeap allocates n slots. n must be positive.
func NewHeap[T any](n int) *Heap[T] {
	if n <= 0 {
		panic(fmt.Sprintf("storage: capacity must be positive, got %d", n))
	}
	return &Heap[T]{items: make([]T, n)}
}

// Len returns the slot count.
func (h *Heap[T]) Len() int { return len(h.items) }

// Slice returns slots [from, to).
func (h *Heap[T]) Slice(from, to int) []T {
	checkRange(from, to, len(h.items))
	return h.items[from:to:to]
}

// Borrowed wraps a caller-owned slice without copying it.
// The caller must not touch the slice while a ring uses it.
type Borrowed[T any] struct {
	items []T
}

// NewBorrowed uses buf as the slot array. buf must not be empty.
func NewBorrowed[T any](buf []T) *Borrowed[T] {
	if len(buf) == 0 {
		panic("storage: borrowed slice is empty")
	}
	return &Borrowed[T]{items: buf}
}

// Len returns the slot count.
func (b *Borrowed[T]) Len() int { return len(b.items) }

// Slice returns slots [from, to).
func (b *Borrowed[T]) Slice(from, to int) []T {
	checkRange(from, to, len(b.items))
	return b.items[from:to:to]
}

func checkRange(from, to, n int) {
	if from < 0 || to < from || to > n {
		panic(fmt.Sprintf("storage: range [%d, %d) outside [0, %d)", from, to, n))
	}
}
