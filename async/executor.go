// File: async/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor polls spawned tasks on a fixed set of worker goroutines. A woken
// task is put back on a shared lock-free run queue, with a channel fallback
// when the queue is full. Panicking tasks are recovered and counted.

package async

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/internal/concurrency"
)

// ErrExecutorClosed is returned by Spawn after Close.
var ErrExecutorClosed = concurrency.ErrExecutorClosed

// TaskFunc is polled until it returns true. Returning false means it is
// waiting and has registered cx's waker somewhere.
type TaskFunc func(cx *Context) bool

const (
	taskIdle int32 = iota
	taskScheduled
	taskRunning
	taskNotified
	taskDone
)

type task struct {
	fn    TaskFunc
	exec  *Executor
	state atomic.Int32
	cx    *Context
}

// Wake schedules t for another poll. Wakes arriving while t runs make the
// worker reschedule it once the current poll returns.
func (t *task) Wake() {
	for {
		switch s := t.state.Load(); s {
		case taskIdle:
			if t.state.CompareAndSwap(s, taskScheduled) {
				t.exec.schedule(t)
				return
			}
		case taskRunning:
			if t.state.CompareAndSwap(s, taskNotified) {
				return
			}
		default:
			return
		}
	}
}

// Executor manages a pool of worker goroutines.
type Executor struct {
	runQueue    *concurrency.LockFreeQueue[*task]
	globalQueue chan *task    // fallback when runQueue is full
	notify      chan struct{} // wakes idle workers
	closeCh     chan struct{}
	closed      atomic.Bool
	numWorkers  int

	mu sync.Mutex // orders Spawn against Close

	tasks   sync.WaitGroup // spawned, not finished
	workers sync.WaitGroup

	// statistics
	totalTasks     atomic.Int64
	completedTasks atomic.Int64
	panickedTasks  atomic.Int64
	droppedTasks   atomic.Int64
}

// NewExecutor starts numWorkers workers. If numWorkers <= 0, defaults to
// runtime.NumCPU().
func NewExecutor(numWorkers int) *Executor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	e := &Executor{
		runQueue:    concurrency.NewLockFreeQueue[*task](1024),
		globalQueue: make(chan *task, numWorkers*64),
		notify:      make(chan struct{}, numWorkers),
		closeCh:     make(chan struct{}),
		numWorkers:  numWorkers,
	}
	e.workers.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go e.run()
	}
	return e
}

// Spawn schedules fn for polling. It returns ErrExecutorClosed after Close.
func (e *Executor) Spawn(fn TaskFunc) error {
	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		return ErrExecutorClosed
	}
	t := &task{fn: fn, exec: e}
	t.cx = NewContext(t)
	t.state.Store(taskScheduled)
	e.totalTasks.Add(1)
	e.tasks.Add(1)
	e.mu.Unlock()
	e.schedule(t)
	return nil
}

// Go runs fut on e and delivers its result on the returned channel. A panic
// inside fut is delivered as an error.
func Go[T any](e *Executor, fut Future[T]) (<-chan api.Result[T], error) {
	out := make(chan api.Result[T], 1)
	err := e.Spawn(func(cx *Context) (finished bool) {
		defer func() {
			if r := recover(); r != nil {
				out <- api.Result[T]{Err: fmt.Errorf("async: task panic: %v", r)}
				finished = true
			}
		}()
		v, err := fut.Poll(cx)
		if errors.Is(err, api.ErrPending) {
			return false
		}
		out <- api.Result[T]{Value: v, Err: err}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Wait blocks until every spawned task has finished.
func (e *Executor) Wait() {
	e.tasks.Wait()
}

// NumWorkers returns the number of workers.
func (e *Executor) NumWorkers() int { return e.numWorkers }

// Close stops the workers and waits for them to exit. Unfinished tasks are
// dropped and no longer hold up Wait.
func (e *Executor) Close() {
	e.mu.Lock()
	if !e.closed.CompareAndSwap(false, true) {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	close(e.closeCh)
	e.workers.Wait()

	dropped := e.totalTasks.Load() - e.completedTasks.Load()
	e.droppedTasks.Store(dropped)
	for ; dropped > 0; dropped-- {
		e.tasks.Done()
	}
}

// Stats returns basic executor metrics.
func (e *Executor) Stats() map[string]int64 {
	total, completed := e.totalTasks.Load(), e.completedTasks.Load()
	dropped := e.droppedTasks.Load()
	return map[string]int64{
		"total_tasks":     total,
		"completed_tasks": completed,
		"pending_tasks":   total - completed - dropped,
		"dropped_tasks":   dropped,
		"panicked_tasks":  e.panickedTasks.Load(),
		"num_workers":     int64(e.numWorkers),
	}
}

func (e *Executor) schedule(t *task) {
	if e.runQueue.Enqueue(t) {
		select {
		case e.notify <- struct{}{}:
		default:
		}
		return
	}
	select {
	case e.globalQueue <- t:
	case <-e.closeCh:
	}
}

// run is the main loop for a worker.
func (e *Executor) run() {
	defer e.workers.Done()
	for {
		if t, ok := e.runQueue.Dequeue(); ok {
			e.poll(t)
			continue
		}
		select {
		case t := <-e.globalQueue:
			e.poll(t)
		case <-e.notify:
		case <-e.closeCh:
			return
		}
	}
}

func (e *Executor) poll(t *task) {
	t.state.Store(taskRunning)
	if e.safePoll(t) {
		t.state.Store(taskDone)
		e.completedTasks.Add(1)
		e.tasks.Done()
		return
	}
	if t.state.CompareAndSwap(taskRunning, taskIdle) {
		return
	}
	// woken while running
	t.state.Store(taskScheduled)
	e.schedule(t)
}

// safePoll runs one poll, treating a panic as completion.
func (e *Executor) safePoll(t *task) (finished bool) {
	defer func() {
		if r := recover(); r != nil {
			e.panickedTasks.Add(1)
			finished = true
		}
	}()
	return t.fn(t.cx)
}
