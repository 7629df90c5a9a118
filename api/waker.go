// Package api
// Author: momentics
//
// Wake-up contract between suspended waiters and the side that unblocks them.

package api

// Waker resumes a suspended waiter. Wake may be called any number of times
// from any goroutine; extra calls are harmless.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }
