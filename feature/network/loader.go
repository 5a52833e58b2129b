package network

import (
	"hotspot-control/core/outbound"
	"hotspot-control/core/router"

	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cfg     Config
	service *Service
	handler *Handler
}

// NewFeature creates a new network feature.
func NewFeature(cfg Config, client *outbound.Client, logger *zap.Logger) *Feature {
	svc := NewService(client, cfg.TargetURLs, logger)
	return &Feature{cfg: cfg, service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "network"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.Enabled && len(f.cfg.TargetURLs) > 0
}

// Load registers the feature's routes.
func (f *Feature) Load(r *router.Router) error {
	f.handler.RegisterRoutes(r)
	return nil
}
