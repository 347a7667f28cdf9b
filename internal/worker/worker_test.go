package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWorkerPool_Flow(t *testing.T) {
	pool := NewPool(Options{MinWorkers: 1, MaxWorkers: 3, RequestsPerNewWorker: 1, IdleTimeout: 50 * time.Millisecond, BufferLimit: 10})

	release := make(chan struct{})
	var processed atomic.Int32

	t.Run("Dispatcher scales up under load", func(t *testing.T) {
		// signals are dropped while the dispatcher is busy, so space submissions out
		for i := 0; i < 8; i++ {
			pool.Submit(func() {
				<-release
				processed.Add(1)
			})
			time.Sleep(10 * time.Millisecond)
		}
		waitFor(t, func() bool { return pool.WorkerCount() == 3 }, "pool did not grow to max")
	})

	t.Run("Workers process every task", func(t *testing.T) {
		close(release)
		waitFor(t, func() bool { return processed.Load() == 8 }, "tasks not processed")
	})

	t.Run("Idle workers retire down to the minimum", func(t *testing.T) {
		waitFor(t, func() bool { return pool.WorkerCount() == 1 }, "idle workers did not retire")
		time.Sleep(120 * time.Millisecond)
		if got := pool.WorkerCount(); got != 1 {
			t.Errorf("pool dropped below its minimum: %d", got)
		}
	})

	t.Run("Stop drains and retires workers", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			pool.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Workers did not stop within timeout")
		}
		if got := pool.WorkerCount(); got != 0 {
			t.Errorf("expected 0 workers, got %d", got)
		}
	})
}

func TestWorkerPool_StopDrainsQueue(t *testing.T) {
	pool := NewPool(Options{MinWorkers: 1, MaxWorkers: 1, RequestsPerNewWorker: 100, IdleTimeout: time.Minute, BufferLimit: 10})

	gate := make(chan struct{})
	var wg sync.WaitGroup
	var processed atomic.Int32
	pool.Submit(func() { <-gate })
	for i := 0; i < 5; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			processed.Add(1)
		})
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()
	close(gate)
	<-stopped

	if got := processed.Load(); got != 5 {
		t.Errorf("queued tasks lost on stop: processed %d", got)
	}
}

func TestWorkerPool_SubmitAfterStopRunsInline(t *testing.T) {
	pool := NewPool(DefaultOptions())
	pool.Stop()
	pool.Stop()

	ran := false
	pool.Submit(func() { ran = true })
	if !ran {
		t.Error("task submitted after stop should run on the caller")
	}
}

func TestWorkerPool_PanicDoesNotKillWorker(t *testing.T) {
	pool := NewPool(Options{MinWorkers: 1, MaxWorkers: 1, RequestsPerNewWorker: 100, IdleTimeout: time.Minute, BufferLimit: 2})
	defer pool.Stop()

	done := make(chan struct{})
	pool.Submit(func() { panic("boom") })
	pool.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a panicking task")
	}
}
