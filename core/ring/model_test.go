package ring

import (
	"math/rand"
	"testing"

	"github.com/eapache/queue"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/storage"
)

// checkSlots verifies that exactly the occupied slots hold items. Items used
// by the model test are never zero.
func checkSlots(t *testing.T, rb *Rb[int], s *storage.Heap[int]) {
	t.Helper()
	c := rb.Capacity()
	occupied := make([]bool, c)
	for p := rb.ReadIndex(); p != rb.WriteIndex(); p++ {
		occupied[int(p%uint64(c))] = true
	}
	for i, v := range s.Slice(0, c) {
		if occupied[i] {
			require.NotZero(t, v, "occupied slot %d holds zero value", i)
		} else {
			require.Zero(t, v, "vacant slot %d still holds %d", i, v)
		}
	}
}

// TestRb_MatchesReferenceQueue drives random operation sequences against the
// ring and an unbounded reference FIFO truncated to the same capacity.
func TestRb_MatchesReferenceQueue(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	next := 1

	for c := 1; c <= 7; c++ {
		s := storage.NewHeap[int](c)
		rb := NewWithStorage[int](s)
		model := queue.New()

		for step := 0; step < 2000; step++ {
			switch op := rng.Intn(8); op {
			case 0:
				_, ok := rb.TryPush(next)
				require.Equal(t, model.Length() < c, ok)
				if ok {
					model.Add(next)
				}
				next++
			case 1:
				item, ok := rb.TryPop()
				require.Equal(t, model.Length() > 0, ok)
				if ok {
					require.Equal(t, model.Remove(), item)
				}
			case 2:
				src := make([]int, rng.Intn(2*c+1))
				for i := range src {
					src[i] = next
					next++
				}
				n := rb.PushSlice(src)
				require.Equal(t, min(len(src), c-model.Length()), n)
				for _, v := range src[:n] {
					model.Add(v)
				}
			case 3:
				dst := make([]int, rng.Intn(2*c+1))
				n := rb.PopSlice(dst)
				require.Equal(t, min(len(dst), model.Length()), n)
				for _, v := range dst[:n] {
					require.Equal(t, model.Remove(), v)
				}
			case 4:
				evicted, ok := rb.PushOverwrite(next)
				require.Equal(t, model.Length() == c, ok)
				if ok {
					require.Equal(t, model.Remove(), evicted)
				}
				model.Add(next)
				next++
			case 5:
				k := rng.Intn(c + 2)
				n := rb.Skip(k)
				require.Equal(t, min(k, model.Length()), n)
				for i := 0; i < n; i++ {
					model.Remove()
				}
			case 6:
				limit := rng.Intn(2*c + 1)
				pulled := 0
				n := rb.PushIter(func() (int, bool) {
					if pulled == limit {
						return 0, false
					}
					pulled++
					v := next
					next++
					model.Add(v)
					return v, true
				})
				require.Equal(t, pulled, n)
			case 7:
				src := make([]int, rng.Intn(2*c+1))
				for i := range src {
					src[i] = next
					next++
				}
				rb.PushSliceOverwrite(src)
				for _, v := range src {
					if model.Length() == c {
						model.Remove()
					}
					model.Add(v)
				}
			}

			require.Equal(t, model.Length(), rb.OccupiedLen())
			require.Equal(t, c, rb.OccupiedLen()+rb.VacantLen())
			if model.Length() > 0 {
				head, ok := rb.Peek()
				require.True(t, ok)
				require.Equal(t, model.Peek(), head)
			}
			checkSlots(t, rb, s)
		}
	}
}
