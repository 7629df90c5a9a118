package ring

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/storage"
)

// sliceIter adapts a slice to the pull-style source used by PushIter.
func sliceIter[T any](items []T) func() (T, bool) {
	i := 0
	return func() (T, bool) {
		if i == len(items) {
			var zero T
			return zero, false
		}
		i++
		return items[i-1], true
	}
}

func TestRb_PushPop(t *testing.T) {
	rb := New[int](4)
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 4, rb.Capacity())

	_, ok := rb.TryPush(42)
	require.True(t, ok)
	assert.Equal(t, 1, rb.OccupiedLen())
	assert.Equal(t, 3, rb.VacantLen())

	item, ok := rb.TryPop()
	require.True(t, ok)
	assert.Equal(t, 42, item)
	assert.True(t, rb.IsEmpty())

	_, ok = rb.TryPop()
	assert.False(t, ok)
}

func TestRb_FullRejectsItem(t *testing.T) {
	rb := New[string](2)
	_, ok := rb.TryPush("a")
	require.True(t, ok)
	_, ok = rb.TryPush("b")
	require.True(t, ok)

	rejected, ok := rb.TryPush("c")
	assert.False(t, ok)
	assert.Equal(t, "c", rejected)
	assert.True(t, rb.IsFull())
}

func TestRb_SliceWrapAround(t *testing.T) {
	rb := New[int](5)
	require.Equal(t, 3, rb.PushSlice([]int{1, 2, 3}))
	dst := make([]int, 2)
	require.Equal(t, 2, rb.PopSlice(dst))
	assert.Equal(t, []int{1, 2}, dst)

	// write cursor at 3: four items wrap across the end of storage
	require.Equal(t, 4, rb.PushSlice([]int{4, 5, 6, 7, 8}))
	head, tail := rb.OccupiedSlices()
	assert.Equal(t, []int{3, 4, 5}, head)
	assert.Equal(t, []int{6, 7}, tail)

	out := make([]int, 10)
	n := rb.PopSlice(out)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, out[:n])
	assert.True(t, rb.IsEmpty())
}

func TestRb_PushIterStopsWhenFull(t *testing.T) {
	rb := New[int](3)
	pulled := 0
	next := func() (int, bool) {
		pulled++
		return pulled, true
	}
	assert.Equal(t, 3, rb.PushIter(next))
	assert.Equal(t, 3, pulled, "no item may be pulled without room for it")
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(rb.PopIter()))
}

func TestRb_PushIterSourceExhausted(t *testing.T) {
	rb := New[int](8)
	assert.Equal(t, 2, rb.PushIter(sliceIter([]int{7, 9})))
	assert.Equal(t, 2, rb.OccupiedLen())
}

func TestRb_PopIterStopsEarly(t *testing.T) {
	rb := New[int](4)
	rb.PushSlice([]int{1, 2, 3})
	for item := range rb.PopIter() {
		if item == 2 {
			break
		}
	}
	item, ok := rb.TryPop()
	require.True(t, ok)
	assert.Equal(t, 3, item)
}

func TestRb_SkipAndPeek(t *testing.T) {
	rb := New[int](4)
	rb.PushSlice([]int{1, 2, 3})
	item, ok := rb.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, item)
	assert.Equal(t, 3, rb.OccupiedLen())

	assert.Equal(t, 2, rb.Skip(2))
	assert.Equal(t, 1, rb.Skip(5))
	assert.Equal(t, 0, rb.Skip(1))
	_, ok = rb.Peek()
	assert.False(t, ok)
}

func TestRb_VacantSlicesAdvanceWrite(t *testing.T) {
	rb := New[byte](4)
	rb.PushSlice([]byte{0, 0, 0})
	rb.Skip(3)

	head, tail := rb.VacantSlices()
	require.Len(t, head, 1)
	require.Len(t, tail, 3)
	head[0] = 'a'
	tail[0] = 'b'
	rb.AdvanceWrite(2)

	out := make([]byte, 4)
	assert.Equal(t, 2, rb.PopSlice(out))
	assert.Equal(t, "ab", string(out[:2]))

	assert.Panics(t, func() { rb.AdvanceWrite(5) })
	assert.Panics(t, func() { rb.AdvanceRead(1) })
}

func TestRb_ClearZeroesSlots(t *testing.T) {
	s := storage.NewHeap[*int](3)
	rb := NewWithStorage[*int](s)
	v := 1
	rb.PushSlice([]*int{&v, &v})
	assert.Equal(t, 2, rb.Clear())
	for _, p := range s.Slice(0, 3) {
		assert.Nil(t, p)
	}
}

func TestRb_RawParts(t *testing.T) {
	s := storage.NewBorrowed([]int{30, 0, 10, 20})
	rb := FromRawParts[int](s, 6, 9)
	assert.Equal(t, 3, rb.OccupiedLen())
	assert.Equal(t, []int{10, 20, 30}, slices.Collect(rb.PopIter()))

	_, read, write := rb.IntoRawParts()
	assert.Equal(t, uint64(9), read)
	assert.Equal(t, uint64(9), write)

	assert.Panics(t, func() { FromRawParts[int](s, 0, 5) })
}

func TestNew_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
}
