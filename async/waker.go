// File: async/waker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

// Context carries the waker of the task polling a future.
type Context struct {
	waker api.Waker
}

// NewContext wraps w for polling.
func NewContext(w api.Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the waker of the polling task.
func (cx *Context) Waker() api.Waker { return cx.waker }

type wakerBox struct {
	w api.Waker
}

// AtomicWaker holds at most one registered waker. Register replaces the
// previous registration; Wake takes the slot and signals it. Only the most
// recent registration is guaranteed to be woken.
type AtomicWaker struct {
	slot atomic.Pointer[wakerBox]
}

// Register stores w, dropping any earlier waker.
func (a *AtomicWaker) Register(w api.Waker) {
	if w == nil {
		a.slot.Store(nil)
		return
	}
	a.slot.Store(&wakerBox{w: w})
}

// Wake signals and clears the registered waker, if any.
func (a *AtomicWaker) Wake() {
	if b := a.slot.Swap(nil); b != nil {
		b.w.Wake()
	}
}
