package blocking

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitOccupied_AlreadySatisfiedDoesNotPark(t *testing.T) {
	clock := &FakeClock{}
	prod, cons := New[int](4, WithClock(clock)).Split()
	prod.PushSlice([]int{1, 2})

	assert.True(t, cons.WaitOccupied(2, 0))
	assert.True(t, cons.WaitOccupied(2, Forever))
	assert.Zero(t, clock.Parks())
	assert.Equal(t, uint64(0), cons.ReadIndex())
	assert.Panics(t, func() { cons.WaitOccupied(5, 0) })
}

func TestWaitOccupied_ZeroTimeoutFailsImmediately(t *testing.T) {
	clock := &FakeClock{}
	_, cons := New[int](4, WithClock(clock)).Split()
	assert.False(t, cons.WaitOccupied(1, 0))
	assert.Equal(t, Instant(0), clock.Now())
}

func TestWaitVacant_Count(t *testing.T) {
	clock := &FakeClock{}
	prod, cons := New[int](4, WithClock(clock)).Split()
	assert.Panics(t, func() { prod.WaitVacant(5, 0) })
	assert.True(t, prod.WaitVacant(4, 0))

	prod.PushSlice([]int{1, 2, 3, 4})
	assert.False(t, prod.WaitVacant(2, 0))
	assert.False(t, prod.WaitVacant(2, 10*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, clock.Now().Sub(0))

	cons.Skip(1)
	assert.False(t, prod.WaitVacant(2, 0))
	cons.Skip(1)
	assert.True(t, prod.WaitVacant(2, Forever))
	assert.False(t, prod.WaitVacant(3, 0))
	assert.Equal(t, 10*time.Millisecond, clock.Now().Sub(0))
}

func TestPopAll_SingleDeadline(t *testing.T) {
	clock := &FakeClock{}
	prod, cons := New[int](4, WithClock(clock)).Split()
	prod.TryPush(1)

	var got []int
	for item := range cons.PopAll(50 * time.Millisecond) {
		got = append(got, item)
	}
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 50*time.Millisecond, clock.Now().Sub(0))

	// time spent in the loop body counts against the same deadline
	start := clock.Now()
	prod.PushSlice([]int{2, 3})
	got = got[:0]
	for item := range cons.PopAll(50 * time.Millisecond) {
		got = append(got, item)
		clock.Advance(20 * time.Millisecond)
	}
	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, 50*time.Millisecond, clock.Now().Sub(start))
}

func TestPop_Timeout(t *testing.T) {
	clock := &FakeClock{}
	_, cons := New[int](2, WithClock(clock)).Split()
	_, ok := cons.Pop(50 * time.Millisecond)
	assert.False(t, ok)
	assert.Equal(t, 50*time.Millisecond, clock.Now().Sub(0))
}

func TestPop_ClosedEndsWait(t *testing.T) {
	prod, cons := New[int](2, WithClock(&FakeClock{})).Split()
	prod.TryPush(9)
	require.NoError(t, prod.Close())

	item, ok := cons.Pop(Forever)
	require.True(t, ok)
	assert.Equal(t, 9, item)
	_, ok = cons.Pop(Forever)
	assert.False(t, ok)
}

func TestPush_Errors(t *testing.T) {
	clock := &FakeClock{}
	prod, cons := New[string](1, WithClock(clock)).Split()

	_, err := prod.Push("a", 0)
	require.NoError(t, err)
	item, err := prod.Push("b", 10*time.Millisecond)
	assert.ErrorIs(t, err, api.ErrTimeout)
	assert.Equal(t, "b", item)

	require.NoError(t, cons.Close())
	item, err = prod.Push("c", Forever)
	assert.ErrorIs(t, err, api.ErrClosed)
	assert.Equal(t, "c", item)
}

func TestPushSliceAll_ShortCountOnTimeout(t *testing.T) {
	prod, _ := New[int](2, WithClock(&FakeClock{})).Split()
	n := prod.PushSliceAll([]int{1, 2, 3, 4, 5}, 10*time.Millisecond)
	assert.Equal(t, 2, n)
}

func TestPushIterAll_ShortCountOnClose(t *testing.T) {
	prod, cons := New[int](2, WithClock(&FakeClock{})).Split()
	require.NoError(t, cons.Close())
	pulled := 0
	n := prod.PushIterAll(func() (int, bool) {
		pulled++
		return pulled, true
	}, Forever)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, pulled, "one item is peeked ahead")
}

func TestPopSliceAll_PartialOnClose(t *testing.T) {
	prod, cons := New[int](4, WithClock(&FakeClock{})).Split()
	prod.PushSlice([]int{1, 2, 3})
	require.NoError(t, prod.Close())

	dst := make([]int, 5)
	n := cons.PopSliceAll(dst, Forever)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3, 0, 0}, dst)
}

func TestTransfer_RealClock(t *testing.T) {
	const total = 10_000
	prod, cons := New[int](13).Split()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer prod.Close()
		src := make([]int, 100)
		for base := 0; base < total; base += len(src) {
			for i := range src {
				src[i] = base + i
			}
			if !assert.Equal(t, len(src), prod.PushSliceAll(src, Forever)) {
				return
			}
		}
	}()

	expected := 0
	for item := range cons.PopAll(Forever) {
		require.Equal(t, expected, item)
		expected++
	}
	wg.Wait()
	assert.Equal(t, total, expected)
}

func TestReaderWriter(t *testing.T) {
	prod, cons := New[byte](7).Split()
	payload := bytes.Repeat([]byte("0123456789"), 300)

	errc := make(chan error, 1)
	go func() {
		w := NewWriter(prod)
		_, err := w.Write(payload)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		errc <- err
	}()

	got, err := io.ReadAll(NewReader(cons))
	require.NoError(t, err)
	require.NoError(t, <-errc)
	assert.Equal(t, payload, got)
}

func TestReader_Timeout(t *testing.T) {
	_, cons := New[byte](4, WithClock(&FakeClock{})).Split()
	r := NewReader(cons)
	r.SetTimeout(time.Second)
	n, err := r.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestWriter_ClosedPipe(t *testing.T) {
	prod, cons := New[byte](2, WithClock(&FakeClock{})).Split()
	w := NewWriter(prod)
	w.SetTimeout(time.Second)
	n, err := w.Write([]byte("abcd"))
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, api.ErrTimeout)

	require.NoError(t, cons.Close())
	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
