package server

import (
	"errors"
	"fmt"
	"time"

	"hotspot-control/core/apikey"
)

// Config holds configuration for the control server.
type Config struct {
	// Host is the address the listener binds to.
	Host string `mapstructure:"host" default:"0.0.0.0"`
	// Ports is the ordered list of candidate ports.
	Ports []int `mapstructure:"ports" default:"9999,10000,10001,10002,10003"`
	// ApiKey is the secret expected as the first path segment.
	ApiKey string `mapstructure:"api_key" default:""`
	// AuthEnabled turns path-prefix key authentication on.
	AuthEnabled bool `mapstructure:"auth_enabled" default:"true"`
	// DeveloperMode exposes the debug endpoints.
	DeveloperMode bool `mapstructure:"developer_mode" default:"false"`
	// ReadTimeout bounds reading a request, from acceptance.
	ReadTimeout time.Duration `mapstructure:"read_timeout" default:"5s"`
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `mapstructure:"write_timeout" default:"30s"`
	// Workers is the number of connection workers.
	Workers int `mapstructure:"workers" default:"4"`
	// Queue is the number of accepted connections waiting for a worker.
	// Values below 1 are raised to 1.
	Queue int `mapstructure:"queue" default:"16"`
	// DrainGrace is how long Stop lets in-flight connections finish.
	DrainGrace time.Duration `mapstructure:"drain_grace" default:"5s"`
	// ForceGrace is how long Stop waits after cancelling connections.
	ForceGrace time.Duration `mapstructure:"force_grace" default:"3s"`
	// ScopeGrace is how long Stop waits for background tasks.
	ScopeGrace time.Duration `mapstructure:"scope_grace" default:"3s"`
	// AcceptRate limits accepted connections per second. Zero disables it.
	AcceptRate float64 `mapstructure:"accept_rate" default:"0"`
	// AcceptBurst is the accept limiter burst size.
	AcceptBurst int `mapstructure:"accept_burst" default:"20"`
}

// DefaultPorts is used when no candidate ports are configured.
var DefaultPorts = []int{9999, 10000, 10001, 10002, 10003}

var (
	// ErrNoPorts is returned when no candidate port is configured.
	ErrNoPorts = errors.New("no candidate ports configured")
	// ErrInvalidKey is returned when auth is enabled with an unusable key.
	ErrInvalidKey = errors.New("invalid api key")
)

// Validate checks the configuration before a server is built from it.
func (c Config) Validate() error {
	if len(c.Ports) == 0 {
		return ErrNoPorts
	}
	for _, p := range c.Ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %d", p)
		}
	}
	if c.AuthEnabled && !apikey.Valid(c.ApiKey) {
		return fmt.Errorf("%w: at least %d characters of [A-Za-z0-9_-] required", ErrInvalidKey, apikey.MinLength)
	}
	return nil
}

// CandidatePorts returns the configured ports in order with duplicates
// removed. DefaultPorts are used when none are configured.
func (c Config) CandidatePorts() []int {
	ports := c.Ports
	if len(ports) == 0 {
		ports = DefaultPorts
	}

	seen := make(map[int]struct{}, len(ports))
	out := make([]int, 0, len(ports))
	for _, p := range ports {
		if p <= 0 {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Clone returns a copy that shares no slices with c.
func (c Config) Clone() Config {
	c.Ports = append([]int(nil), c.Ports...)
	return c
}
