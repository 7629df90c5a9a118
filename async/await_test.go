package async

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwait_Transfer(t *testing.T) {
	const total = 20_000
	prod, cons := New[int](7).Split()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer prod.Close()
		for i := 0; i < total; i++ {
			_, err := Await[int](ctx, prod.Push(i))
			if !assert.NoError(t, err) {
				return
			}
		}
	}()

	expected := 0
	for item := range cons.Items(ctx) {
		require.Equal(t, expected, item)
		expected++
	}
	wg.Wait()
	assert.Equal(t, total, expected)
}

func TestAwait_ContextCanceled(t *testing.T) {
	_, cons := New[int](1).Split()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Await[int](ctx, cons.Pop())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReaderWriter(t *testing.T) {
	prod, cons := New[byte](5).Split()
	ctx := context.Background()
	payload := bytes.Repeat([]byte("ring-buffer "), 200)

	errc := make(chan error, 1)
	go func() {
		w := NewWriter(ctx, prod)
		_, err := w.Write(payload)
		if err == nil {
			err = w.Close()
		}
		errc <- err
	}()

	got, err := io.ReadAll(NewReader(ctx, cons))
	require.NoError(t, err)
	require.NoError(t, <-errc)
	assert.Equal(t, payload, got)
}

func TestWriter_ConsumerClosed(t *testing.T) {
	prod, cons := New[byte](2).Split()
	r := NewReader(context.Background(), cons)
	require.NoError(t, r.Close())
	n, err := NewWriter(context.Background(), prod).Write([]byte("abc"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Zero(t, n)
}
