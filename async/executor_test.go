package async

import (
	"testing"
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushAll is a hand-written task pushing 0..n-1 then closing.
func pushAll(prod *Producer[int], n int) TaskFunc {
	next := 0
	return func(cx *Context) bool {
		prod.RegisterWaker(cx.Waker())
		for next < n {
			if prod.IsClosed() {
				return true
			}
			if _, ok := prod.TryPush(next); !ok {
				return false
			}
			next++
		}
		prod.Close()
		return true
	}
}

func TestExecutor_SingleWorkerRunsBothSides(t *testing.T) {
	const total = 5_000
	e := NewExecutor(1)
	defer e.Close()
	prod, cons := New[int](3).Split()

	require.NoError(t, e.Spawn(pushAll(prod, total)))

	sum, count := 0, 0
	results, err := Go[int](e, FutureFunc[int](func(cx *Context) (int, error) {
		for {
			item, err := cons.PollNext(cx)
			if err != nil {
				if err == api.ErrClosed {
					return count, nil
				}
				return count, err
			}
			sum += item
			count++
		}
	}))
	require.NoError(t, err)

	res := <-results
	require.NoError(t, res.Err)
	assert.Equal(t, total, res.Value)
	assert.Equal(t, total*(total-1)/2, sum)
	e.Wait()
	assert.EqualValues(t, 2, e.Stats()["completed_tasks"])
}

func TestExecutor_PanicBecomesError(t *testing.T) {
	e := NewExecutor(2)
	defer e.Close()
	results, err := Go[int](e, FutureFunc[int](func(*Context) (int, error) {
		panic("boom")
	}))
	require.NoError(t, err)
	res := <-results
	assert.ErrorContains(t, res.Err, "boom")
}

func TestExecutor_SpawnAfterClose(t *testing.T) {
	e := NewExecutor(1)
	e.Close()
	assert.ErrorIs(t, e.Spawn(func(*Context) bool { return true }), ErrExecutorClosed)
	_, err := Go[int](e, FutureFunc[int](func(*Context) (int, error) { return 0, nil }))
	assert.ErrorIs(t, err, ErrExecutorClosed)
}

func TestExecutor_WaitAfterCloseReturns(t *testing.T) {
	e := NewExecutor(2)
	polled := make(chan struct{})
	require.NoError(t, e.Spawn(func(*Context) bool {
		select {
		case <-polled:
		default:
			close(polled)
		}
		return false
	}))
	<-polled
	e.Close()

	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait blocked after Close")
	}
	stats := e.Stats()
	assert.EqualValues(t, 1, stats["dropped_tasks"])
	assert.EqualValues(t, 0, stats["pending_tasks"])
}
