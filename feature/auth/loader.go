package auth

import (
	"hotspot-control/core/router"
	"hotspot-control/core/server"

	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new auth feature for the instance running cfg.
func NewFeature(cfg server.Config, control Reconfigurer, logger *zap.Logger) *Feature {
	svc := NewService(cfg, control, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "auth"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(r *router.Router) error {
	f.handler.RegisterRoutes(r)
	return nil
}
