// File: internal/iterx/peekable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Peekable wraps a pull-style source so callers can learn whether it is
// exhausted without losing the next item.

package iterx

// Peekable buffers at most one item pulled from a source.
type Peekable[T any] struct {
	next    func() (T, bool)
	head    T
	hasHead bool
	done    bool
}

// NewPeekable wraps next.
func NewPeekable[T any](next func() (T, bool)) *Peekable[T] {
	return &Peekable[T]{next: next}
}

// Exhausted pulls one item ahead if needed and reports whether the source has
// no more items.
func (p *Peekable[T]) Exhausted() bool {
	if p.hasHead {
		return false
	}
	if p.done {
		return true
	}
	p.head, p.hasHead = p.next()
	p.done = !p.hasHead
	return p.done
}

// Next returns the buffered item first, then pulls from the source.
func (p *Peekable[T]) Next() (T, bool) {
	if p.hasHead {
		item := p.head
		var zero T
		p.head, p.hasHead = zero, false
		return item, true
	}
	if p.done {
		var zero T
		return zero, false
	}
	item, ok := p.next()
	p.done = !ok
	return item, ok
}
