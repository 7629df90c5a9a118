// File: cmd/ringbench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ringbench moves a numbered sequence through one SPSC ring buffer using the
// blocking or async layer and reports throughput. While running it serves
// ring gauges on /metrics and probe output on /debug/state. SIGHUP reloads
// the config file and applies a new producer rate.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/momentics/hioload-ring/control"
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ringbench:", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional file then applies explicitly set flags.
func loadConfig(args []string) (control.Config, string, string, error) {
	fs := flag.NewFlagSet("ringbench", flag.ContinueOnError)
	path := fs.String("config", "", "YAML config file")
	format := fs.String("log-format", "text", "log format: text or json")
	def := control.DefaultConfig()
	capacity := fs.Int("capacity", def.Capacity, "ring capacity in items")
	items := fs.Int("items", def.Items, "items to transfer")
	batch := fs.Int("batch", def.Batch, "items per slice operation")
	mode := fs.String("mode", def.Mode, "blocking or async")
	timeout := fs.Duration("timeout", def.Timeout, "per-operation timeout (blocking mode)")
	perSec := fs.Float64("rate", def.Rate, "producer items per second, 0 = unlimited")
	workers := fs.Int("workers", def.Workers, "executor workers (async mode)")
	pinProd := fs.Int("pin-producer", def.PinProducer, "cpu for the producer thread, -1 = none")
	pinCons := fs.Int("pin-consumer", def.PinConsumer, "cpu for the consumer thread, -1 = none")
	addr := fs.String("metrics-addr", def.MetricsAddr, "listen address for /metrics, empty = disabled")
	level := fs.String("log-level", def.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return control.Config{}, "", "", err
	}

	cfg := def
	if *path != "" {
		var err error
		if cfg, err = control.LoadConfig(*path); err != nil {
			return control.Config{}, "", "", err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = *capacity
		case "items":
			cfg.Items = *items
		case "batch":
			cfg.Batch = *batch
		case "mode":
			cfg.Mode = *mode
		case "timeout":
			cfg.Timeout = *timeout
		case "rate":
			cfg.Rate = *perSec
		case "workers":
			cfg.Workers = *workers
		case "pin-producer":
			cfg.PinProducer = *pinProd
		case "pin-consumer":
			cfg.PinConsumer = *pinCons
		case "metrics-addr":
			cfg.MetricsAddr = *addr
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	return cfg, *path, *format, cfg.Validate()
}

func execute(args []string) error {
	cfg, path, format, err := loadConfig(args)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	log := setupLogger(os.Stderr, cfg.LogLevel, format, runID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rings := control.NewRingCollector("hioload")
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)
	b := newBench(cfg, log, rings, probes)

	store := control.NewConfigStore()
	store.SetConfig(map[string]any{"rate": cfg.Rate})
	store.OnReload(func() {
		if v, ok := store.Get("rate"); ok {
			r := v.(float64)
			b.limiter.SetLimit(limitOf(r))
			log.Info("producer rate updated", "rate", r)
		}
	})
	probes.RegisterProbe("config", func() any { return store.GetSnapshot() })
	if path != "" {
		go watchReload(ctx, path, store, log)
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(rings, collectors.NewGoCollector())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newRouter(reg, probes),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	log.Info("run starting",
		"mode", cfg.Mode,
		"capacity", cfg.Capacity,
		"items", cfg.Items,
		"batch", cfg.Batch)
	rep, err := b.run(ctx, runID)
	if err != nil {
		log.Error("run failed", "error", err)
		return err
	}
	log.Info("run finished",
		"items", rep.Items,
		"elapsed", rep.Elapsed,
		"items_per_sec", rep.PerSec,
		"timeouts", rep.Timeouts)
	return json.NewEncoder(os.Stdout).Encode(rep)
}

// watchReload re-reads path on SIGHUP and publishes reloadable values.
func watchReload(ctx context.Context, path string, store *control.ConfigStore, log *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			cfg, err := control.LoadConfig(path)
			if err != nil {
				log.Warn("config reload failed", "path", path, "error", err)
				continue
			}
			store.SetConfig(map[string]any{"rate": cfg.Rate})
		}
	}
}

