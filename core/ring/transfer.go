// File: core/ring/transfer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw transfer primitives. Producer-side functions write slots then store
// write; consumer-side functions read and zero slots then store read.
// None of them block, spin or allocate.

package ring

import "iter"

// TryPush adds item; returns it back with ok == false if full.
func (r *Rb[T]) TryPush(item T) (rejected T, ok bool) {
	read, write := r.read.Load(), r.write.Load()
	if r.occupied(read, write) == r.capacity {
		return item, false
	}
	i := int(write % r.capacity)
	r.storage.Slice(i, i+1)[0] = item
	r.write.Store(write + 1)
	return rejected, true
}

// TryPop removes and returns the oldest item; ok false if empty.
func (r *Rb[T]) TryPop() (item T, ok bool) {
	read, write := r.read.Load(), r.write.Load()
	if read == write {
		return item, false
	}
	i := int(read % r.capacity)
	slot := r.storage.Slice(i, i+1)
	item = slot[0]
	var zero T
	slot[0] = zero
	r.read.Store(read + 1)
	return item, true
}

// Peek returns the oldest item without removing it.
func (r *Rb[T]) Peek() (item T, ok bool) {
	read, write := r.read.Load(), r.write.Load()
	if read == write {
		return item, false
	}
	i := int(read % r.capacity)
	return r.storage.Slice(i, i+1)[0], true
}

// PushSlice copies min(len(src), vacant) leading items of src into the
// buffer and returns the count.
func (r *Rb[T]) PushSlice(src []T) int {
	a, b := r.vacantRanges()
	n := copy(r.slots(a), src)
	if n < len(src) {
		n += copy(r.slots(b), src[n:])
	}
	r.commitWrite(n)
	return n
}

// PopSlice moves min(len(dst), occupied) oldest items into dst and returns
// the count.
func (r *Rb[T]) PopSlice(dst []T) int {
	a, b := r.occupiedRanges()
	head := r.slots(a)
	n := copy(dst, head)
	clear(head[:n])
	if n < len(dst) {
		tail := r.slots(b)
		m := copy(dst[n:], tail)
		clear(tail[:m])
		n += m
	}
	r.commitRead(n)
	return n
}

// PushIter pulls items from next into vacant slots until the buffer is full
// or next reports exhaustion. Returns the count pushed. next is never called
// when there is no room for its result.
func (r *Rb[T]) PushIter(next func() (T, bool)) int {
	a, b := r.vacantRanges()
	n := fillFrom(r.slots(a), next)
	if n == a.len() {
		n += fillFrom(r.slots(b), next)
	}
	r.commitWrite(n)
	return n
}

func fillFrom[T any](dst []T, next func() (T, bool)) int {
	for i := range dst {
		item, ok := next()
		if !ok {
			return i
		}
		dst[i] = item
	}
	return len(dst)
}

// PopIter yields items in order until the buffer is empty or the loop body
// stops. Each yielded item is already removed from the buffer.
func (r *Rb[T]) PopIter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := r.TryPop()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Skip drops up to n oldest items and returns the count dropped.
func (r *Rb[T]) Skip(n int) int {
	n = max(0, min(n, r.OccupiedLen()))
	r.zeroOldest(n)
	r.commitRead(n)
	return n
}

// Clear drops every stored item and returns how many were dropped. After
// Split use Consumer.Clear.
func (r *Rb[T]) Clear() int {
	r.unsplit()
	return r.clear()
}

func (r *Rb[T]) clear() int {
	return r.Skip(r.OccupiedLen())
}
