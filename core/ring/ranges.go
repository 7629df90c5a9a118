// File: core/ring/ranges.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mapping from logical positions to physical storage ranges.

package ring

// span is a physical slot range [from, to).
type span struct {
	from, to int
}

func (s span) len() int { return s.to - s.from }

// mapRange converts the logical range [start, start+n) into at most two
// physical spans. The split happens exactly where start+i mod capacity wraps
// from capacity-1 to 0; tail is empty when the range does not wrap.
func (r *Rb[T]) mapRange(start uint64, n int) (head, tail span) {
	if n < 0 || uint64(n) > r.capacity {
		panic("ring: logical range longer than capacity")
	}
	c := int(r.capacity)
	begin := int(start % r.capacity)
	first := min(n, c-begin)
	return span{begin, begin + first}, span{0, n - first}
}

// occupiedRanges maps [read, write).
func (r *Rb[T]) occupiedRanges() (head, tail span) {
	read, write := r.read.Load(), r.write.Load()
	return r.mapRange(read, int(r.occupied(read, write)))
}

// vacantRanges maps [write, read+capacity).
func (r *Rb[T]) vacantRanges() (head, tail span) {
	read, write := r.read.Load(), r.write.Load()
	return r.mapRange(write, int(r.capacity-r.occupied(read, write)))
}

func (r *Rb[T]) slots(s span) []T {
	return r.storage.Slice(s.from, s.to)
}

// OccupiedSlices returns the stored items in order as two storage views.
// The second view is empty unless the items wrap. Only the consumer may call
// it; the views stay valid until the consumer advances the read counter.
func (r *Rb[T]) OccupiedSlices() (head, tail []T) {
	a, b := r.occupiedRanges()
	return r.slots(a), r.slots(b)
}

// VacantSlices returns the free slots in write order as two storage views.
// Only the producer may call it. Items written there become visible after
// AdvanceWrite.
func (r *Rb[T]) VacantSlices() (head, tail []T) {
	a, b := r.vacantRanges()
	return r.slots(a), r.slots(b)
}

// AdvanceWrite publishes n items written into the vacant slices.
// n larger than the vacant length panics.
func (r *Rb[T]) AdvanceWrite(n int) {
	if n < 0 || n > r.VacantLen() {
		panic("ring: advance write past vacant range")
	}
	r.commitWrite(n)
}

// AdvanceRead drops the n oldest items, zeroing their slots.
// n larger than the occupied length panics.
func (r *Rb[T]) AdvanceRead(n int) {
	if n < 0 || n > r.OccupiedLen() {
		panic("ring: advance read past occupied range")
	}
	r.zeroOldest(n)
	r.commitRead(n)
}

func (r *Rb[T]) commitWrite(n int) {
	if n > 0 {
		r.write.Store(r.write.Load() + uint64(n))
	}
}

func (r *Rb[T]) commitRead(n int) {
	if n > 0 {
		r.read.Store(r.read.Load() + uint64(n))
	}
}

// zeroOldest resets the slots of the n oldest items without moving read.
func (r *Rb[T]) zeroOldest(n int) {
	a, b := r.mapRange(r.read.Load(), n)
	clear(r.slots(a))
	clear(r.slots(b))
}
