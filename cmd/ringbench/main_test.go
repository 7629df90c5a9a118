package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momentics/hioload-ring/control"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBench(t *testing.T, mode string) (*bench, *control.RingCollector) {
	t.Helper()
	cfg := control.DefaultConfig()
	cfg.Mode = mode
	cfg.Capacity = 31
	cfg.Items = 20_000
	cfg.Batch = 16
	rings := control.NewRingCollector("test")
	return newBench(cfg, setupLogger(io.Discard, "debug", "text", "test"), rings, control.NewDebugProbes()), rings
}

func TestBench_Modes(t *testing.T) {
	for _, mode := range []string{control.ModeBlocking, control.ModeAsync} {
		t.Run(mode, func(t *testing.T) {
			b, rings := testBench(t, mode)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			rep, err := b.run(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, 20_000, rep.Items)
			assert.Equal(t, uint64(20_000*19_999/2), rep.Sum)
			assert.Equal(t, mode, rep.Mode)
			assert.Equal(t, "run-1", rep.RunID)
			assert.Empty(t, rings.Snapshot())
		})
	}
}

func TestBench_PinFailureStillRuns(t *testing.T) {
	b, _ := testBench(t, control.ModeBlocking)
	b.cfg.PinProducer = 1 << 20
	b.cfg.PinConsumer = 1 << 20
	assert.NotPanics(t, b.pin("producer", 1<<20))

	rep, err := b.run(context.Background(), "run-pin")
	require.NoError(t, err)
	assert.Equal(t, 20_000, rep.Items)
}

func TestSequence_OutOfOrder(t *testing.T) {
	s := &sequence{}
	require.NoError(t, s.accept([]uint64{0, 1, 2}))
	assert.Error(t, s.accept([]uint64{4}))
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	cfg, path, format, err := loadConfig([]string{"-mode", "async", "-capacity", "8", "-log-format", "json"})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "json", format)
	assert.Equal(t, control.ModeAsync, cfg.Mode)
	assert.Equal(t, 8, cfg.Capacity)
	assert.Equal(t, control.DefaultConfig().Items, cfg.Items)

	_, _, _, err = loadConfig([]string{"-capacity", "0"})
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	rings := control.NewRingCollector("test")
	probes := control.NewDebugProbes()
	probes.RegisterProbe("answer", func() any { return 42 })
	reg := prometheus.NewRegistry()
	reg.MustRegister(rings)
	srv := httptest.NewServer(newRouter(reg, probes))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/state")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"answer":42}`, string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/health", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
