package auth

import (
	"errors"

	"hotspot-control/core/apikey"
	"hotspot-control/core/server"

	"go.uber.org/zap"
)

// ErrDeveloperMode is returned when developer mode is off.
var ErrDeveloperMode = errors.New("developer mode required")

// Reconfigurer applies a server configuration after the current request.
type Reconfigurer interface {
	ReconfigureAsync(cfg server.Config) error
}

// Settings is the auth state after a change.
type Settings struct {
	Enabled bool   `json:"enabled"`
	ApiKey  string `json:"apiKey,omitempty"`
}

// Service changes auth settings of the running server.
type Service struct {
	cfg     server.Config
	control Reconfigurer
	logger  *zap.Logger
}

// NewService creates a new auth service for the instance running cfg.
func NewService(cfg server.Config, control Reconfigurer, logger *zap.Logger) *Service {
	return &Service{cfg: cfg.Clone(), control: control, logger: logger}
}

// DeveloperMode reports whether changes are allowed.
func (s *Service) DeveloperMode() bool {
	return s.cfg.DeveloperMode
}

// GenerateKey schedules a restart with a new key and returns it.
func (s *Service) GenerateKey() (Settings, error) {
	next := s.cfg.Clone()
	next.ApiKey = apikey.Generate()
	if err := s.apply(next); err != nil {
		return Settings{}, err
	}
	s.logger.Info("API key regenerated, restarting server")
	return Settings{Enabled: next.AuthEnabled, ApiKey: next.ApiKey}, nil
}

// SetEnabled schedules a restart with auth turned on or off. Enabling auth
// without a key generates one, which is returned.
func (s *Service) SetEnabled(enabled bool) (Settings, error) {
	next := s.cfg.Clone()
	next.AuthEnabled = enabled

	out := Settings{Enabled: enabled}
	if enabled && next.ApiKey == "" {
		next.ApiKey = apikey.Generate()
		out.ApiKey = next.ApiKey
	}
	if err := s.apply(next); err != nil {
		return Settings{}, err
	}
	s.logger.Info("API key auth toggled, restarting server", zap.Bool("enabled", enabled))
	return out, nil
}

func (s *Service) apply(next server.Config) error {
	if !s.cfg.DeveloperMode {
		return ErrDeveloperMode
	}
	return s.control.ReconfigureAsync(next)
}
