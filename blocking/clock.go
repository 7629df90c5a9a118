// File: blocking/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package blocking

import (
	"sync"
	"time"
)

// Forever disables the deadline of a blocking operation.
const Forever time.Duration = -1

// Instant is a monotonic reading, measured from the origin of its Clock.
type Instant time.Duration

// Add returns the instant d later.
func (i Instant) Add(d time.Duration) Instant { return i + Instant(d) }

// Sub returns the duration i-j.
func (i Instant) Sub(j Instant) time.Duration { return time.Duration(i - j) }

// Clock is the time source of blocking operations.
type Clock interface {
	// Now returns the current instant.
	Now() Instant
	// Park blocks until d elapses or wake delivers a value, and reports
	// whether it was woken. A negative d waits for wake only.
	Park(d time.Duration, wake <-chan struct{}) bool
}

// StdClock reads the runtime monotonic clock.
type StdClock struct {
	origin time.Time
}

// NewStdClock returns a clock whose origin is now.
func NewStdClock() *StdClock {
	return &StdClock{origin: time.Now()}
}

func (c *StdClock) Now() Instant {
	return Instant(time.Since(c.origin))
}

func (c *StdClock) Park(d time.Duration, wake <-chan struct{}) bool {
	switch {
	case d < 0:
		<-wake
		return true
	case d == 0:
		select {
		case <-wake:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-wake:
		return true
	case <-t.C:
		return false
	}
}

// FakeClock is a virtual clock for tests. Parking without a pending wake
// advances it by the full duration instead of sleeping.
type FakeClock struct {
	mu    sync.Mutex
	now   Instant
	parks int
}

func (c *FakeClock) Now() Instant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Parks returns how many times Park was called.
func (c *FakeClock) Parks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parks
}

func (c *FakeClock) Park(d time.Duration, wake <-chan struct{}) bool {
	c.mu.Lock()
	c.parks++
	c.mu.Unlock()
	select {
	case <-wake:
		return true
	default:
	}
	if d < 0 {
		<-wake
		return true
	}
	c.Advance(d)
	return false
}
