// File: core/ring/rb.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Rb is the shared ring buffer: cursors padded on separate cache lines,
// storage behind api.Storage, and the reference count used by split handles.

package ring

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/storage"
)

// Ensure compile-time interface compliance.
var _ api.RingBuffer[any] = (*Rb[any])(nil)

// Rb is a lock-free ring buffer (single-producer, single-consumer safe).
type Rb[T any] struct {
	_     cpu.CacheLinePad
	read  atomic.Uint64
	_     cpu.CacheLinePad
	write atomic.Uint64
	_     cpu.CacheLinePad

	storage  api.Storage[T]
	capacity uint64

	split      atomic.Bool
	refs       atomic.Int32
	prodClosed atomic.Bool
	consClosed atomic.Bool
}

// New allocates a ring buffer holding up to capacity items.
func New[T any](capacity int) *Rb[T] {
	return NewWithStorage[T](storage.NewHeap[T](capacity))
}

// NewWithStorage builds an empty ring buffer over s.
// Every slot of s must hold the zero value.
func NewWithStorage[T any](s api.Storage[T]) *Rb[T] {
	return FromRawParts(s, 0, 0)
}

// FromRawParts builds a ring buffer over s with the given counters.
// Slots in the logical range [read, write) must hold items, all others the
// zero value. write-read must not exceed the storage length.
func FromRawParts[T any](s api.Storage[T], read, write uint64) *Rb[T] {
	n := s.Len()
	if n <= 0 {
		panic("ring: storage capacity must be positive")
	}
	if write-read > uint64(n) {
		panic(fmt.Sprintf("ring: occupied length %d exceeds capacity %d", write-read, n))
	}
	r := &Rb[T]{storage: s, capacity: uint64(n)}
	r.read.Store(read)
	r.write.Store(write)
	return r
}

// IntoRawParts returns the storage and counters. The buffer must not be used
// afterwards; stored items stay in the storage.
func (r *Rb[T]) IntoRawParts() (s api.Storage[T], read, write uint64) {
	return r.storage, r.read.Load(), r.write.Load()
}

// Capacity returns fixed buffer capacity.
func (r *Rb[T]) Capacity() int { return int(r.capacity) }

// ReadIndex returns the total number of items ever removed.
func (r *Rb[T]) ReadIndex() uint64 { return r.read.Load() }

// WriteIndex returns the total number of items ever inserted.
func (r *Rb[T]) WriteIndex() uint64 { return r.write.Load() }

// OccupiedLen returns number of items currently in buffer.
func (r *Rb[T]) OccupiedLen() int {
	return int(r.occupied(r.read.Load(), r.write.Load()))
}

// VacantLen returns number of free slots.
func (r *Rb[T]) VacantLen() int {
	return int(r.capacity - r.occupied(r.read.Load(), r.write.Load()))
}

// IsEmpty reports whether no items are stored.
func (r *Rb[T]) IsEmpty() bool { return r.OccupiedLen() == 0 }

// IsFull reports whether every slot holds an item.
func (r *Rb[T]) IsFull() bool { return r.VacantLen() == 0 }

// IsClosed is always false for an unsplit buffer: it holds both sides.
func (r *Rb[T]) IsClosed() bool { return false }

// occupied computes write-read. A result above capacity means a cursor was
// advanced past its bound, which is a bug in this package.
func (r *Rb[T]) occupied(read, write uint64) uint64 {
	n := write - read
	if n > r.capacity {
		panic(fmt.Sprintf("ring: corrupted cursors read=%d write=%d capacity=%d", read, write, r.capacity))
	}
	return n
}

// estimate is the occupied length for readers owning neither counter. The
// two loads are not one snapshot, so the difference is clamped to
// [0, capacity].
func (r *Rb[T]) estimate() uint64 {
	write := r.write.Load()
	read := r.read.Load()
	if read > write {
		return 0
	}
	return min(write-read, r.capacity)
}
