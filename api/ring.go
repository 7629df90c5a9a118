// Package api
// Author: momentics@gmail.com
//
// Single-producer/single-consumer ring buffer contracts.
//
// Every capability is split by side: Observer is read-only and may be used
// from any goroutine, Producer and Consumer each own exactly one cursor.

package api

import "iter"

// Observer exposes the occupancy view of a ring buffer.
//
// Readers other than the producer or consumer get racy estimates; the values
// are suitable for display and metrics only.
type Observer interface {
	// Capacity returns the fixed number of slots, always >= 1.
	Capacity() int
	// ReadIndex returns the total number of items ever removed.
	ReadIndex() uint64
	// WriteIndex returns the total number of items ever inserted.
	WriteIndex() uint64
	// OccupiedLen returns the number of items currently stored.
	OccupiedLen() int
	// VacantLen returns the number of free slots.
	VacantLen() int
	IsEmpty() bool
	IsFull() bool
}

// Producer is the write side of a ring buffer.
type Producer[T any] interface {
	Observer
	// TryPush appends item. When the buffer is full the item is handed back
	// with ok == false.
	TryPush(item T) (rejected T, ok bool)
	// PushSlice copies as many leading items of src as fit and returns the count.
	PushSlice(src []T) int
	// PushIter pulls items from next while there is room and returns the count.
	// No item is pulled that cannot be stored.
	PushIter(next func() (T, bool)) int
	// IsClosed reports whether the consumer is gone.
	IsClosed() bool
}

// Consumer is the read side of a ring buffer.
type Consumer[T any] interface {
	Observer
	// TryPop removes the oldest item; ok is false when the buffer is empty.
	TryPop() (item T, ok bool)
	// PopSlice moves up to len(dst) items into dst and returns the count.
	PopSlice(dst []T) int
	// PopIter yields items until the buffer is empty.
	PopIter() iter.Seq[T]
	// Skip drops up to n oldest items and returns the count dropped.
	Skip(n int) int
	// IsClosed reports whether the producer is gone.
	IsClosed() bool
}

// RingBuffer is an unsplit buffer holding both sides.
type RingBuffer[T any] interface {
	Producer[T]
	Consumer[T]
	// PushOverwrite appends item, evicting the oldest item when full.
	PushOverwrite(item T) (evicted T, ok bool)
	// Clear drops every stored item and returns how many were dropped.
	Clear() int
}
