package outbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"hotspot-control/core/cleanup"
	"hotspot-control/core/database"
	"hotspot-control/core/pool"

	"go.uber.org/zap"
)

// ErrClosed is returned for calls made after Close.
var ErrClosed = errors.New("outbound: client closed")

// Response is a fully read outbound response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Cached      bool
	Duration    time.Duration
}

// Client is a pooled HTTP client with an executor and an optional cache.
type Client struct {
	http      *http.Client
	transport *http.Transport
	executor  *pool.Pool
	cache     *ResponseCache
	maxBody   int64
	logger    *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// New builds a client. A cache that cannot be opened is logged and skipped.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	c := &Client{
		http:      &http.Client{Transport: transport, Timeout: timeoutDuration},
		transport: transport,
		executor:  pool.New(cfg.Workers, cfg.Queue),
		maxBody:   maxBody,
		logger:    logger,
	}

	if cfg.Cache.Enabled {
		if db, err := database.Connect(cfg.Cache.Database); err != nil {
			logger.Warn("Response cache disabled", zap.Error(err))
		} else if cache, err := NewResponseCache(db, cfg.Cache.TTL); err != nil {
			_ = database.Close(db)
			logger.Warn("Response cache disabled", zap.Error(err))
		} else {
			c.cache = cache
		}
	}

	return c
}

// WithCache attaches a response cache. It is meant for wiring and tests.
func (c *Client) WithCache(cache *ResponseCache) *Client {
	c.cache = cache
	return c
}

// Cache returns the response cache, or nil when disabled.
func (c *Client) Cache() *ResponseCache {
	return c.cache
}

// Get performs a GET request, serving and filling the cache when enabled.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	if c.cache != nil {
		row, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			c.logger.Debug("Response cache read failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			return &Response{
				StatusCode:  row.StatusCode,
				ContentType: row.ContentType,
				Body:        row.Body,
				Cached:      true,
			}, nil
		}
	}

	resp, err := c.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := c.cache.Put(ctx, url, resp); err != nil {
			c.logger.Debug("Response cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return resp, nil
}

// Do performs a request and reads the whole body.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader) (*Response, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return &Response{
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        data,
		Duration:    time.Since(start),
	}, nil
}

// Go runs a GET on the executor and passes the result to done.
// The context passed to the request is cancelled if the executor is shut
// down forcibly or ctx ends.
func (c *Client) Go(ctx context.Context, url string, done func(*Response, error)) error {
	if c.isClosed() {
		return ErrClosed
	}

	return c.executor.Submit(func(execCtx context.Context) {
		reqCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(execCtx, cancel)
		defer stop()

		resp, err := c.Get(reqCtx, url)
		if done != nil {
			done(resp, err)
		}
	})
}

// Stats returns executor statistics.
func (c *Client) Stats() pool.Stats {
	return c.executor.Stats()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close shuts down the executor, evicts pooled connections and closes the
// response cache. Each step runs even if an earlier one fails. Calls after the
// first return nil.
func (c *Client) Close(wait time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	seq := cleanup.New(c.logger).
		Add("executor", func() error {
			if err := c.executor.Shutdown(wait); err != nil {
				return c.executor.ShutdownNow(wait)
			}
			return nil
		}).
		Add("connection pool", func() error {
			c.transport.CloseIdleConnections()
			return nil
		})

	if c.cache != nil {
		seq.Add("response cache", c.cache.Close)
	}

	return seq.Run()
}
