package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrSaturated is returned by Submit when the queue is full.
	ErrSaturated = errors.New("pool: queue saturated")
	// ErrClosed is returned by Submit after shutdown has started.
	ErrClosed = errors.New("pool: closed")
	// ErrTimeout is returned when workers do not finish within the bound.
	ErrTimeout = errors.New("pool: workers did not terminate in time")
)

// Task is a unit of work. The context is cancelled by ShutdownNow.
type Task func(ctx context.Context)

// Stats is a point-in-time view of the pool.
type Stats struct {
	Workers  int   `json:"workers"`
	Active   int64 `json:"active"`
	Queued   int   `json:"queued"`
	Rejected int64 `json:"rejected"`
	Panics   int64 `json:"panics"`
}

// Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	workers int
	tasks   chan Task

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}

	active   atomic.Int64
	rejected atomic.Int64
	panics   atomic.Int64
}

// New starts a pool with the given number of workers and queue capacity.
// Workers and queue below 1 are raised to 1. An unbuffered queue would only
// accept a task while a worker is already parked on it, so idle pools would
// reject work.
func New(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers: workers,
		tasks:   make(chan Task, queue),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			p.work()
		}()
	}
	go func() {
		wg.Wait()
		close(p.done)
	}()

	return p
}

func (p *Pool) work() {
	for task := range p.tasks {
		p.active.Add(1)
		p.run(task)
		p.active.Add(-1)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
		}
	}()
	task(p.ctx)
}

// Submit enqueues a task without blocking.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("pool: nil task")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		p.rejected.Add(1)
		return ErrSaturated
	}
}

// closeIntake stops accepting tasks. Queued tasks still run.
func (p *Pool) closeIntake() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
}

// Shutdown stops intake and waits up to grace for all tasks to finish.
func (p *Pool) Shutdown(grace time.Duration) error {
	p.closeIntake()
	return p.wait(grace)
}

// ShutdownNow stops intake, cancels the task context and waits up to wait.
// Tasks still queued run with an already cancelled context.
func (p *Pool) ShutdownNow(wait time.Duration) error {
	p.closeIntake()
	p.cancel()
	return p.wait(wait)
}

// Done is closed once every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

func (p *Pool) wait(d time.Duration) error {
	if d <= 0 {
		select {
		case <-p.done:
			return nil
		default:
			return ErrTimeout
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrTimeout, d)
	}
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:  p.workers,
		Active:   p.active.Load(),
		Queued:   len(p.tasks),
		Rejected: p.rejected.Load(),
		Panics:   p.panics.Load(),
	}
}
