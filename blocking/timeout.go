// File: blocking/timeout.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package blocking

import "time"

// TimeoutIterator yields the time left for each retry of an operation. The
// first value is the whole timeout, so a zero timeout still allows one
// attempt. Later values are what remains of it; the iterator is exhausted
// once nothing remains. A negative timeout yields Forever without end.
type TimeoutIterator struct {
	clock   Clock
	timeout time.Duration
	start   Instant
	started bool
}

// NewTimeoutIterator starts the deadline at clock.Now().
func NewTimeoutIterator(clock Clock, timeout time.Duration) *TimeoutIterator {
	return &TimeoutIterator{clock: clock, timeout: timeout, start: clock.Now()}
}

// Next returns the next wait budget; ok is false once the deadline passed.
func (it *TimeoutIterator) Next() (d time.Duration, ok bool) {
	if it.timeout < 0 {
		return Forever, true
	}
	if !it.started {
		it.started = true
		return it.timeout, true
	}
	left := it.timeout - it.clock.Now().Sub(it.start)
	if left <= 0 {
		return 0, false
	}
	return left, true
}
