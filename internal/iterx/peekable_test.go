package iterx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeekable(t *testing.T) {
	items := []int{1, 2}
	calls := 0
	p := NewPeekable(func() (int, bool) {
		calls++
		if len(items) == 0 {
			return 0, false
		}
		v := items[0]
		items = items[1:]
		return v, true
	})

	assert.False(t, p.Exhausted())
	assert.False(t, p.Exhausted())
	assert.Equal(t, 1, calls)

	v, ok := p.Next()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = p.Next()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.True(t, p.Exhausted())
	_, ok = p.Next()
	assert.False(t, ok)
	assert.Equal(t, 3, calls, "source is not pulled after exhaustion")
}
