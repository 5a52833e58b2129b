package listener

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"hotspot-control/core/pool"
	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
	"hotspot-control/core/server"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler produces a response for a routed request.
type Handler interface {
	Serve(c *router.Context) *protocol.Response
}

// Stats is a point-in-time view of the server.
type Stats struct {
	Port     int        `json:"port"`
	Accepted int64      `json:"accepted"`
	Served   int64      `json:"served"`
	Dropped  int64      `json:"dropped"`
	Errors   int64      `json:"errors"`
	Pool     pool.Stats `json:"pool"`
}

type counters struct {
	accepted atomic.Int64
	served   atomic.Int64
	dropped  atomic.Int64
	errors   atomic.Int64
}

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Server owns a bound listener, its accept loop and its worker pool.
type Server struct {
	ln      net.Listener
	cfg     server.Config
	handler Handler
	logger  *zap.Logger
	pool    *pool.Pool
	limiter *rate.Limiter

	stats counters

	startOnce sync.Once
	closing   atomic.Bool
	loopDone  chan struct{}
}

// New wraps an already bound listener. Serving starts with Start.
func New(ln net.Listener, cfg server.Config, handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	s := &Server{
		ln:       ln,
		cfg:      cfg,
		handler:  handler,
		logger:   logger,
		pool:     pool.New(cfg.Workers, cfg.Queue),
		loopDone: make(chan struct{}),
	}
	if cfg.AcceptRate > 0 {
		burst := cfg.AcceptBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), burst)
	}
	return s
}

// Start launches the accept loop. Later calls do nothing.
func (s *Server) Start() {
	s.startOnce.Do(func() {
		go s.acceptLoop()
	})
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Port returns the bound TCP port.
func (s *Server) Port() int {
	if addr, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

func (s *Server) acceptLoop() {
	defer close(s.loopDone)

	backoff := time.Duration(0)
	for {
		raw, err := s.ln.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			s.logger.Warn("Accept failed, retrying", zap.Error(err), zap.Duration("backoff", backoff))
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.stats.accepted.Add(1)

		c := newConn(raw, s)
		if s.limiter != nil && !s.limiter.Allow() {
			s.drop(c, "accept rate exceeded", nil)
			continue
		}
		if err := s.pool.Submit(c.serve); err != nil {
			s.drop(c, "worker pool saturated", err)
		}
	}
}

func (s *Server) drop(c *conn, reason string, err error) {
	s.stats.dropped.Add(1)
	c.logger.Warn("Dropping connection", zap.String("reason", reason), zap.Error(err))
	_ = c.teardown()
}

// Close closes the listener and waits briefly for the accept loop to exit.
// In-flight connections are not affected. Start after Close does nothing.
func (s *Server) Close() error {
	if s.closing.Swap(true) {
		return nil
	}
	err := s.ln.Close()
	// A server that never started has no loop to wait for.
	s.startOnce.Do(func() { close(s.loopDone) })

	select {
	case <-s.loopDone:
	case <-time.After(time.Second):
		s.logger.Warn("Accept loop did not exit in time")
	}

	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Drain lets in-flight connections finish within grace, then cancels the
// rest and waits up to force.
func (s *Server) Drain(grace, force time.Duration) error {
	err := s.pool.Shutdown(grace)
	if err == nil {
		return nil
	}
	s.logger.Warn("Connections still active after grace period, forcing", zap.Error(err))
	return s.pool.ShutdownNow(force)
}

// Done is closed once every worker has exited.
func (s *Server) Done() <-chan struct{} {
	return s.pool.Done()
}

// Stats returns current counters.
func (s *Server) Stats() Stats {
	return Stats{
		Port:     s.Port(),
		Accepted: s.stats.accepted.Load(),
		Served:   s.stats.served.Load(),
		Dropped:  s.stats.dropped.Load(),
		Errors:   s.stats.errors.Load(),
		Pool:     s.pool.Stats(),
	}
}

// ServeConn serves a single connection on the calling goroutine. It is used
// by tests and tools that bypass the accept loop.
func (s *Server) ServeConn(ctx context.Context, raw net.Conn) {
	s.stats.accepted.Add(1)
	newConn(raw, s).serve(ctx)
}
