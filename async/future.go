// File: async/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

// Future is a resumable operation. Poll returns api.ErrPending while the
// operation cannot finish; the context's waker is then registered and will be
// signalled when progress may be possible. Any other return is final, and
// polling a finished future panics.
type Future[T any] interface {
	Poll(cx *Context) (T, error)
}

// FutureFunc adapts a poll function to Future.
type FutureFunc[T any] func(cx *Context) (T, error)

// Poll calls f.
func (f FutureFunc[T]) Poll(cx *Context) (T, error) { return f(cx) }

// once guards against polling a finished future.
type once struct {
	done bool
}

func (o *once) check() {
	if o.done {
		panic("ring: future polled after completion")
	}
}

// IsTerminated reports whether the future has produced its final result.
func (o *once) IsTerminated() bool { return o.done }
