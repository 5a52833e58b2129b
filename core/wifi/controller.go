package wifi

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by the none driver.
var ErrNotConfigured = errors.New("hotspot control is not configured")

// Controller starts and stops the hotspot.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Closer is implemented by controllers holding connections.
type Closer interface {
	Close() error
}

// New builds the controller selected by cfg.Driver.
func New(cfg Config, logger *zap.Logger) (Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case DriverCommand:
		c, err := NewCommandController(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverMQTT:
		c, err := NewMQTTController(cfg.MQTT, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverNone, "":
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unknown wifi driver %q", cfg.Driver)
	}
}

// Unconfigured rejects every call with ErrNotConfigured.
type Unconfigured struct{}

// Start implements Controller.
func (Unconfigured) Start(context.Context) error { return ErrNotConfigured }

// Stop implements Controller.
func (Unconfigured) Stop(context.Context) error { return ErrNotConfigured }
