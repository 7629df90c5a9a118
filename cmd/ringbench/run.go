// File: cmd/ringbench/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One SPSC transfer run. The producer sends the sequence 0..items-1 and the
// consumer checks it arrives complete and in order.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/async"
	"github.com/momentics/hioload-ring/blocking"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/internal/concurrency"
	"github.com/momentics/hioload-ring/storage"
)

// report summarizes a finished run.
type report struct {
	RunID    string        `json:"run_id"`
	Mode     string        `json:"mode"`
	Items    int           `json:"items"`
	Sum      uint64        `json:"sum"`
	Elapsed  time.Duration `json:"elapsed"`
	PerSec   float64       `json:"items_per_sec"`
	Timeouts int           `json:"timeouts"`
}

type bench struct {
	cfg     control.Config
	log     *slog.Logger
	limiter *rate.Limiter
	rings   *control.RingCollector
	probes  *control.DebugProbes
}

// limitOf converts a configured rate; 0 means unlimited.
func limitOf(perSec float64) rate.Limit {
	if perSec <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSec)
}

func newBench(cfg control.Config, log *slog.Logger, rings *control.RingCollector, probes *control.DebugProbes) *bench {
	return &bench{
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(limitOf(cfg.Rate), cfg.Batch),
		rings:   rings,
		probes:  probes,
	}
}

func (b *bench) run(ctx context.Context, runID string) (report, error) {
	recycler := storage.NewRecycler[uint64](b.cfg.Capacity)
	slots := recycler.Get()

	start := time.Now()
	var (
		rep report
		err error
	)
	switch b.cfg.Mode {
	case control.ModeAsync:
		rep, err = b.runAsync(ctx, slots)
	default:
		rep, err = b.runBlocking(ctx, slots)
	}
	b.rings.Unregister("bench")
	if err != nil {
		return rep, err
	}
	// the buffer is cleared by the last handle close
	slots.Release()

	rep.RunID = runID
	rep.Mode = b.cfg.Mode
	rep.Elapsed = time.Since(start)
	if secs := rep.Elapsed.Seconds(); secs > 0 {
		rep.PerSec = float64(rep.Items) / secs
	}
	return rep, nil
}

func (b *bench) observe(obs api.Observer) {
	b.rings.Register("bench", obs)
	b.probes.RegisterRing("bench", obs)
}

func (b *bench) pin(side string, cpu int) func() {
	if cpu < 0 {
		return func() {}
	}
	if err := concurrency.PinCurrentThread(cpu); err != nil {
		// PinCurrentThread already released the OS thread
		b.log.Warn("cpu pinning failed", "side", side, "cpu", cpu, "error", err)
		return func() {}
	}
	b.log.Debug("thread pinned", "side", side, "cpu", cpu)
	return concurrency.UnpinCurrentThread
}

// sequence checks consumed items against the produced order.
type sequence struct {
	next uint64
	sum  uint64
}

func (s *sequence) accept(items []uint64) error {
	for _, v := range items {
		if v != s.next {
			return fmt.Errorf("item %d out of order: got %d", s.next, v)
		}
		s.sum += v
		s.next++
	}
	return nil
}

func (b *bench) runBlocking(ctx context.Context, slots api.Storage[uint64]) (report, error) {
	rb := blocking.NewWithStorage[uint64](slots)
	b.observe(rb.Observer())
	prod, cons := rb.Split()
	total := uint64(b.cfg.Items)

	var timeouts int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer prod.Close()
		defer b.pin("producer", b.cfg.PinProducer)()

		batch := make([]uint64, b.cfg.Batch)
		for next := uint64(0); next < total; {
			n := int(min(uint64(len(batch)), total-next))
			if err := b.limiter.WaitN(gctx, n); err != nil {
				return err
			}
			for i := range batch[:n] {
				batch[i] = next + uint64(i)
			}
			pending := batch[:n]
			for len(pending) > 0 {
				k := prod.PushSliceAll(pending, b.cfg.Timeout)
				pending = pending[k:]
				if len(pending) == 0 {
					break
				}
				if prod.IsClosed() {
					// the consumer left and reports its own error
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				timeouts++
				b.log.Warn("producer timed out", "pending", len(pending), "timeout", b.cfg.Timeout)
			}
			next += uint64(n)
		}
		return nil
	})

	seq := &sequence{}
	g.Go(func() error {
		defer cons.Close()
		defer b.pin("consumer", b.cfg.PinConsumer)()

		buf := make([]uint64, b.cfg.Batch)
		for {
			n := cons.PopSliceAll(buf, b.cfg.Timeout)
			if err := seq.accept(buf[:n]); err != nil {
				return err
			}
			if n < len(buf) && cons.IsClosed() && cons.IsEmpty() {
				return nil
			}
		}
	})

	err := g.Wait()
	return report{Items: int(seq.next), Sum: seq.sum, Timeouts: timeouts}, err
}

func (b *bench) runAsync(ctx context.Context, slots api.Storage[uint64]) (report, error) {
	rb := async.NewWithStorage[uint64](slots)
	b.observe(rb.Observer())
	prod, cons := rb.Split()

	exec := async.NewExecutor(b.cfg.Workers)
	defer exec.Close()

	sent, err := async.Go[int](exec, &asyncProducer{
		p:       prod,
		total:   uint64(b.cfg.Items),
		batch:   make([]uint64, b.cfg.Batch),
		limiter: b.limiter,
	})
	if err != nil {
		return report{}, err
	}
	seq := &sequence{}
	received, err := async.Go[int](exec, &asyncConsumer{
		c:   cons,
		seq: seq,
		buf: make([]uint64, b.cfg.Batch),
	})
	if err != nil {
		return report{}, err
	}

	var errs []error
	for _, ch := range []<-chan api.Result[int]{sent, received} {
		select {
		case res := <-ch:
			errs = append(errs, res.Err)
		case <-ctx.Done():
			return report{}, ctx.Err()
		}
	}
	exec.Wait()
	b.log.Debug("executor finished", "stats", exec.Stats())
	return report{Items: int(seq.next), Sum: seq.sum}, errors.Join(errs...)
}

// asyncProducer pushes the sequence in batches, paced by the limiter.
type asyncProducer struct {
	p       *async.Producer[uint64]
	total   uint64
	next    uint64
	batch   []uint64
	pending *async.PushSliceFuture[uint64]

	limiter  *rate.Limiter
	reserved bool
	readyAt  time.Time
}

func (ap *asyncProducer) Poll(cx *async.Context) (int, error) {
	for {
		if ap.pending != nil {
			_, err := ap.pending.Poll(cx)
			if errors.Is(err, api.ErrPending) {
				return 0, err
			}
			ap.pending = nil
			if err != nil {
				ap.p.Close()
				return int(ap.next), err
			}
		}
		if ap.next >= ap.total {
			ap.p.Close()
			return int(ap.total), nil
		}
		n := int(min(uint64(len(ap.batch)), ap.total-ap.next))
		if !ap.reserved {
			now := time.Now()
			d := ap.limiter.ReserveN(now, n).DelayFrom(now)
			ap.reserved = true
			ap.readyAt = now.Add(d)
			if d > 0 {
				time.AfterFunc(d, cx.Waker().Wake)
			}
		}
		if time.Now().Before(ap.readyAt) {
			return 0, api.ErrPending
		}
		ap.reserved = false
		for i := range ap.batch[:n] {
			ap.batch[i] = ap.next + uint64(i)
		}
		ap.next += uint64(n)
		ap.pending = ap.p.PushSliceAll(ap.batch[:n])
	}
}

// asyncConsumer drains the buffer in batches until the producer closes.
type asyncConsumer struct {
	c       *async.Consumer[uint64]
	seq     *sequence
	buf     []uint64
	pending *async.PopSliceFuture[uint64]
}

func (ac *asyncConsumer) Poll(cx *async.Context) (int, error) {
	for {
		if ac.pending == nil {
			ac.pending = ac.c.PopSliceAll(ac.buf)
		}
		n, err := ac.pending.Poll(cx)
		if errors.Is(err, api.ErrPending) {
			return 0, err
		}
		ac.pending = nil
		if serr := ac.seq.accept(ac.buf[:n]); serr != nil {
			ac.c.Close()
			return int(ac.seq.next), serr
		}
		if errors.Is(err, api.ErrClosed) {
			ac.c.Close()
			return int(ac.seq.next), nil
		}
	}
}
