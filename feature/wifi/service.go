package wifi

import (
	"context"
	"errors"
	"time"

	"hotspot-control/core/wifi"

	"go.uber.org/zap"
)

// Service toggles the hotspot through a controller.
type Service struct {
	controller wifi.Controller
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService creates a new wifi service. A non-positive timeout leaves the
// request context as the only bound.
func NewService(controller wifi.Controller, timeout time.Duration, logger *zap.Logger) *Service {
	if controller == nil {
		controller = wifi.Unconfigured{}
	}
	return &Service{controller: controller, timeout: timeout, logger: logger}
}

// Start enables the hotspot.
func (s *Service) Start(ctx context.Context) error {
	return s.run(ctx, "start", s.controller.Start)
}

// Stop disables the hotspot.
func (s *Service) Stop(ctx context.Context) error {
	return s.run(ctx, "stop", s.controller.Stop)
}

func (s *Service) run(ctx context.Context, action string, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("WiFi controller timed out", zap.String("action", action), zap.Duration("timeout", s.timeout))
		}
		return err
	}
	s.logger.Info("WiFi hotspot toggled", zap.String("action", action), zap.Duration("duration", time.Since(start)))
	return nil
}
