package taskscope

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrClosed is returned when scheduling on a cancelled scope.
	ErrClosed = errors.New("taskscope: scope cancelled")
	// ErrBusy is returned when the task limit is reached.
	ErrBusy = errors.New("taskscope: task limit reached")
	// ErrTimeout is returned by Cancel when tasks outlive the wait bound.
	ErrTimeout = errors.New("taskscope: tasks did not finish in time")
)

// DefaultLimit bounds concurrently running background tasks.
const DefaultLimit = 8

// Scope is a cancellable task group.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a scope derived from parent. A limit below 1 uses DefaultLimit.
func New(parent context.Context, limit int, logger *zap.Logger) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	g := new(errgroup.Group)
	g.SetLimit(limit)

	return &Scope{
		ctx:    ctx,
		cancel: cancel,
		group:  g,
		logger: logger,
	}
}

// Context returns the scope context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fn in the background under the scope.
func (s *Scope) Go(name string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	ok := s.group.TryGo(func() error {
		s.runTask(name, fn)
		return nil
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrBusy, name)
	}
	return nil
}

// Every runs fn every interval until the scope is cancelled.
// The first run happens after one interval.
func (s *Scope) Every(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("taskscope: invalid interval %s for %s", interval, name)
	}

	return s.Go(name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.runTask(name, fn)
			}
		}
	})
}

func (s *Scope) runTask(name string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Background task panicked", zap.String("task", name), zap.Any("panic", r))
		}
	}()

	if err := fn(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Background task failed", zap.String("task", name), zap.Error(err))
	}
}

// Cancel cancels the scope and waits up to wait for running tasks.
// It is safe to call more than once.
func (s *Scope) Cancel(wait time.Duration) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(done)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrTimeout, wait)
	}
}

// Closed reports whether Cancel has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
