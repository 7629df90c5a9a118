// File: async/await.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"context"
	"errors"

	"github.com/momentics/hioload-ring/api"
)

// Await polls fut on the calling goroutine until it resolves or ctx is done.
// On cancellation the last polled value is returned with ctx.Err(); the
// future's waker stays registered and fires harmlessly later.
func Await[T any](ctx context.Context, fut Future[T]) (T, error) {
	signal := make(chan struct{}, 1)
	cx := NewContext(api.WakerFunc(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	}))
	for {
		v, err := fut.Poll(cx)
		if !errors.Is(err, api.ErrPending) {
			return v, err
		}
		select {
		case <-signal:
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
}
