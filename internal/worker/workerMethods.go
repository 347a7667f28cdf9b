package worker

import (
	"time"

	"github.com/akolanti/DocQuery/internal/metrics"
)

func (p *Pool) execute(task func()) {
	start := time.Now()
	defer func() {
		metrics.DecrementTasksInQueue()
		metrics.CaptureExecutionMetrics("worker_task", time.Since(start))
		if r := recover(); r != nil {
			p.logger.Error("Task panicked", "panic", r)
		}
	}()
	task()
}

func (p *Pool) drain() {
	for {
		select {
		case task := <-p.tasks:
			p.execute(task)
		default:
			return
		}
	}
}

// tryRetire removes the calling worker if the pool is above its minimum.
func (p *Pool) tryRetire() bool {
	for {
		current := p.workerCount.Load()
		if current <= p.opts.MinWorkers {
			return false
		}
		if p.workerCount.CompareAndSwap(current, current-1) {
			p.wg.Done()
			metrics.DecrementActiveWorkerCount()
			p.logger.Debug("Idle worker timeout - Removed worker", "workerCount", current-1)
			return true
		}
	}
}

func (p *Pool) removeWorker(reason string) {
	count := p.workerCount.Add(-1)
	p.wg.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Debug("Removed worker", "reason", reason, "workerCount", count)
}
