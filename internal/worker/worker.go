package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/metrics"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

type Options struct {
	MinWorkers int64
	MaxWorkers int64
	// RequestsPerNewWorker is how many submissions it takes to ask the dispatcher for one more worker.
	RequestsPerNewWorker int64
	IdleTimeout          time.Duration
	BufferLimit          int
}

func DefaultOptions() Options {
	return Options{
		MinWorkers:           config.MinWorkerCount,
		MaxWorkers:           config.MaxWorkerCount,
		RequestsPerNewWorker: config.RequestsPerNewWorkerCount,
		IdleTimeout:          config.IdleWorkerTimeout,
		BufferLimit:          config.TaskBufferLimit,
	}
}

// Pool is an elastic worker pool. It starts with MinWorkers, grows by one on each
// dispatcher signal up to MaxWorkers, and lets idle workers above MinWorkers retire.
type Pool struct {
	opts Options

	tasks      chan func()
	dispatcher chan struct{}
	stop       chan struct{}

	mu      sync.RWMutex
	stopped bool

	wg          sync.WaitGroup
	workerCount atomic.Int64
	submitted   atomic.Int64
	logger      *logger_i.Logger
}

func NewPool(opts Options) *Pool {
	if opts.MinWorkers < 1 {
		opts.MinWorkers = 1
	}
	if opts.MaxWorkers < opts.MinWorkers {
		opts.MaxWorkers = opts.MinWorkers
	}
	if opts.RequestsPerNewWorker < 1 {
		opts.RequestsPerNewWorker = 1
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = config.IdleWorkerTimeout
	}

	p := &Pool{
		opts:       opts,
		tasks:      make(chan func(), opts.BufferLimit),
		dispatcher: make(chan struct{}, 1),
		stop:       make(chan struct{}),
		logger:     logger_i.NewLogger("WorkerPool"),
	}
	p.logger.Info("Initializing worker pool", "min", opts.MinWorkers, "max", opts.MaxWorkers)
	for i := int64(0); i < opts.MinWorkers; i++ {
		p.createWorker()
	}
	go p.dispatch()
	return p
}

// Submit queues a task. Once the pool is stopped the task runs on the caller.
func (p *Pool) Submit(task func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.logger.Warn("Pool stopped, running task inline")
		task()
		return
	}

	metrics.IncrementTasksInQueue()
	if p.submitted.Add(1)%p.opts.RequestsPerNewWorker == 0 {
		select {
		case p.dispatcher <- struct{}{}:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
	p.tasks <- task
}

func (p *Pool) WorkerCount() int64 {
	return p.workerCount.Load()
}

// Stop refuses new work, lets the workers finish everything already queued and
// waits for them to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) dispatch() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.dispatcher:
			if p.workerCount.Load() < p.opts.MaxWorkers {
				p.logger.Debug("Creating new worker", "workerCount", p.workerCount.Load())
				p.createWorker()
			}
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	p.workerCount.Add(1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.opts.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case task := <-p.tasks:
			p.execute(task)
			idle.Reset(p.opts.IdleTimeout)

		case <-p.stop:
			p.drain()
			p.removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if p.tryRetire() {
				return
			}
			idle.Reset(p.opts.IdleTimeout)
		}
	}
}
