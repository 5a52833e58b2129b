package manager

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"hotspot-control/core/cleanup"
	"hotspot-control/core/listener"
	"hotspot-control/core/loader"
	"hotspot-control/core/middleware"
	"hotspot-control/core/outbound"
	"hotspot-control/core/router"
	"hotspot-control/core/server"
	"hotspot-control/core/statuscache"
	"hotspot-control/core/taskscope"

	"go.uber.org/zap"
)

var (
	// ErrBindConflict marks a candidate port that could not be bound.
	ErrBindConflict = errors.New("port unavailable")
	// ErrPortExhausted is returned when no candidate port could be bound.
	ErrPortExhausted = errors.New("no candidate port available")
	// ErrNotConfigured is returned by Restart before any Start.
	ErrNotConfigured = errors.New("server has never been started")
)

// Reconfigurer applies a new server configuration after the current request.
type Reconfigurer interface {
	ReconfigureAsync(cfg server.Config) error
}

// Resources are handed to features when an instance is built.
type Resources struct {
	Config   server.Config
	Status   *statuscache.Cache
	Outbound *outbound.Client
	Scope    *taskscope.Scope
	Control  Reconfigurer
	Logger   *zap.Logger
}

// FeatureFactory builds the features loaded into each new instance.
type FeatureFactory func(res Resources) []loader.Feature

// ListenFunc binds a TCP address.
type ListenFunc func(ctx context.Context, addr string) (net.Listener, error)

// Options configures a Manager.
type Options struct {
	Logger *zap.Logger
	// Status is shared by every instance and cleared on stop.
	Status *statuscache.Cache
	// Outbound configures the per-instance outbound client.
	Outbound outbound.Config
	// Features builds the routes of each instance.
	Features FeatureFactory
	// StatusRefresh is the background status warm-up interval. Zero disables it.
	StatusRefresh time.Duration
	// Listen overrides how ports are bound.
	Listen ListenFunc
}

type instance struct {
	cfg       server.Config
	srv       *listener.Server
	port      int
	scope     *taskscope.Scope
	client    *outbound.Client
	startedAt time.Time
}

// Manager controls the single server instance.
type Manager struct {
	opts   Options
	logger *zap.Logger
	listen ListenFunc

	pending sync.WaitGroup

	mu       sync.Mutex
	inst     *instance
	cfg      *server.Config
	lastPort int
}

// New creates a manager. Nothing is bound until Start.
func New(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Status == nil {
		opts.Status = statuscache.New(nil, 0)
	}
	listen := opts.Listen
	if listen == nil {
		listen = func(ctx context.Context, addr string) (net.Listener, error) {
			var lc net.ListenConfig
			return lc.Listen(ctx, "tcp", addr)
		}
	}
	return &Manager{
		opts:   opts,
		logger: opts.Logger,
		listen: listen,
	}
}

// Start stops any running instance and starts a new one from cfg.
// It returns the bound port.
func (m *Manager) Start(ctx context.Context, cfg server.Config) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.startLocked(ctx, cfg.Clone())
}

// Reconfigure replaces the running instance with one built from cfg.
func (m *Manager) Reconfigure(ctx context.Context, cfg server.Config) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Reconfiguring server",
		zap.Bool("auth_enabled", cfg.AuthEnabled),
		zap.Ints("ports", cfg.Ports),
	)
	return m.startLocked(ctx, cfg.Clone())
}

// ReconfigureAsync validates cfg and applies it on a manager goroutine. It is
// meant for handlers: the instance serving the call is stopped by the
// reconfiguration, so the handler must return before it can complete.
func (m *Manager) ReconfigureAsync(cfg server.Config) error {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		if _, err := m.Reconfigure(context.Background(), cfg); err != nil {
			m.logger.Error("Deferred reconfiguration failed", zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every deferred reconfiguration has finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Restart stops the running instance and starts again with the last
// configuration.
func (m *Manager) Restart(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg == nil {
		return 0, ErrNotConfigured
	}
	return m.startLocked(ctx, m.cfg.Clone())
}

func (m *Manager) startLocked(ctx context.Context, cfg server.Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid server configuration: %w", err)
	}

	if m.inst != nil {
		m.logger.Info("Stopping running server before start", zap.Int("port", m.inst.port))
		m.stopLocked()
	}

	ln, port, err := m.bind(ctx, cfg)
	if err != nil {
		return 0, err
	}

	inst, err := m.build(ln, port, cfg)
	if err != nil {
		_ = ln.Close()
		return 0, err
	}

	inst.srv.Start()
	m.inst = inst
	m.cfg = &cfg
	m.lastPort = port

	m.logger.Info("Server started",
		zap.Int("port", port),
		zap.Bool("auth_enabled", cfg.AuthEnabled),
		zap.Bool("developer_mode", cfg.DeveloperMode),
	)
	return port, nil
}

// bind tries each candidate port once, in order.
func (m *Manager) bind(ctx context.Context, cfg server.Config) (net.Listener, int, error) {
	candidates := cfg.CandidatePorts()

	var lastErr error
	for i, port := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
		ln, err := m.listen(ctx, addr)
		if err == nil {
			if i > 0 {
				m.logger.Info("Bound fallback port", zap.Int("port", port), zap.Int("preferred", candidates[0]))
			}
			return ln, port, nil
		}

		lastErr = fmt.Errorf("%w: %s: %w", ErrBindConflict, addr, err)
		if errors.Is(err, syscall.EADDRINUSE) {
			m.logger.Warn("Port in use, trying next candidate", zap.Int("port", port))
		} else {
			m.logger.Warn("Bind failed, trying next candidate", zap.Int("port", port), zap.Error(err))
		}
	}

	return nil, 0, fmt.Errorf("%w (tried %v): %w", ErrPortExhausted, candidates, lastErr)
}

func (m *Manager) build(ln net.Listener, port int, cfg server.Config) (*instance, error) {
	log := m.logger.With(zap.Int("port", port))

	scope := taskscope.New(context.Background(), taskscope.DefaultLimit, log)
	client := outbound.New(m.opts.Outbound, log)

	r := router.New(cfg, log)
	r.Use(middleware.RayID(), middleware.Logging(), middleware.Recover())

	if m.opts.Features != nil {
		features := loader.NewManager()
		features.Register(m.opts.Features(Resources{
			Config:   cfg,
			Status:   m.opts.Status,
			Outbound: client,
			Scope:    scope,
			Control:  m,
			Logger:   log,
		})...)
		loaded, err := features.LoadAll(r)
		if err != nil {
			_ = client.Close(time.Second)
			_ = scope.Cancel(time.Second)
			return nil, err
		}
		log.Debug("Features loaded", zap.Strings("features", loaded))
	}

	m.schedule(scope, client, log)

	return &instance{
		cfg:       cfg,
		srv:       listener.New(ln, cfg, r, log),
		port:      port,
		scope:     scope,
		client:    client,
		startedAt: time.Now(),
	}, nil
}

// schedule starts the per-instance background tasks.
func (m *Manager) schedule(scope *taskscope.Scope, client *outbound.Client, log *zap.Logger) {
	if m.opts.StatusRefresh > 0 {
		err := scope.Every("status-warmup", m.opts.StatusRefresh, func(ctx context.Context) error {
			_, err := m.opts.Status.Get(ctx)
			return err
		})
		if err != nil {
			log.Warn("Failed to schedule status warm-up", zap.Error(err))
		}
	}

	if cache := client.Cache(); cache != nil && m.opts.Outbound.Cache.PurgeInterval > 0 {
		err := scope.Every("response-cache-purge", m.opts.Outbound.Cache.PurgeInterval, func(ctx context.Context) error {
			removed, err := cache.Purge(ctx)
			if removed > 0 {
				log.Debug("Purged expired responses", zap.Int64("removed", removed))
			}
			return err
		})
		if err != nil {
			log.Warn("Failed to schedule response cache purge", zap.Error(err))
		}
	}
}

// Stop releases the running instance. It is safe to call at any time.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
}

func (m *Manager) stopLocked() {
	inst := m.inst
	if inst == nil {
		return
	}
	defer func() { m.inst = nil }()

	cfg := inst.cfg
	log := m.logger.With(zap.Int("port", inst.port))
	start := time.Now()

	err := cleanup.New(log).
		Add("listener", inst.srv.Close).
		Add("worker pool", func() error {
			return inst.srv.Drain(cfg.DrainGrace, cfg.ForceGrace)
		}).
		Add("outbound client", func() error {
			return inst.client.Close(cfg.ForceGrace)
		}).
		Add("task scope", func() error {
			return inst.scope.Cancel(cfg.ScopeGrace)
		}).
		Add("status cache", func() error {
			m.opts.Status.Clear()
			return nil
		}).
		Run()

	if err != nil {
		log.Warn("Server stopped with release failures", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Info("Server stopped", zap.Duration("duration", time.Since(start)))
}

// Running reports whether an instance is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inst != nil
}

// Port returns the bound port, or 0 when stopped.
func (m *Manager) Port() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inst == nil {
		return 0
	}
	return m.inst.port
}

// Status describes the manager state.
type Status struct {
	Running         bool            `json:"running"`
	Port            int             `json:"port"`
	ConfiguredPorts []int           `json:"configuredPorts"`
	LastUsedPort    int             `json:"lastUsedPort"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	Server          *listener.Stats `json:"server,omitempty"`
}

// Status returns a snapshot of the manager state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{LastUsedPort: m.lastPort}
	if m.cfg != nil {
		st.ConfiguredPorts = append([]int(nil), m.cfg.Ports...)
	}
	if m.inst != nil {
		stats := m.inst.srv.Stats()
		started := m.inst.startedAt
		st.Running = true
		st.Port = m.inst.port
		st.StartedAt = &started
		st.Server = &stats
	}
	return st
}
