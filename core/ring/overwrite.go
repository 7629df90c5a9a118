// File: core/ring/overwrite.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Destructive pushes that evict the oldest items. They move both cursors and
// are therefore only available on an unsplit buffer.

package ring

// PushOverwrite appends item. If the buffer is full the oldest item is
// popped first and returned with ok == true.
func (r *Rb[T]) PushOverwrite(item T) (evicted T, ok bool) {
	r.unsplit()
	if r.IsFull() {
		evicted, ok = r.TryPop()
	}
	if _, pushed := r.TryPush(item); !pushed {
		panic("ring: push after eviction failed")
	}
	return evicted, ok
}

// PushIterOverwrite appends every item from next, evicting as needed. Only
// the last Capacity items of the sequence survive, in order.
func (r *Rb[T]) PushIterOverwrite(next func() (T, bool)) {
	r.unsplit()
	for {
		item, ok := next()
		if !ok {
			return
		}
		r.PushOverwrite(item)
	}
}

// PushSliceOverwrite appends src, evicting the oldest items so that src fits.
// When src is longer than the capacity only its tail is kept.
func (r *Rb[T]) PushSliceOverwrite(src []T) {
	r.unsplit()
	vacant := r.VacantLen()
	if len(src) > vacant {
		r.Skip(min(len(src)-vacant, r.OccupiedLen()))
		if c := r.Capacity(); len(src) > c {
			src = src[len(src)-c:]
		}
	}
	r.PushSlice(src)
}
