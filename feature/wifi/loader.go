package wifi

import (
	"time"

	"hotspot-control/core/router"
	"hotspot-control/core/wifi"

	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new wifi feature.
func NewFeature(controller wifi.Controller, timeout time.Duration, logger *zap.Logger) *Feature {
	svc := NewService(controller, timeout, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "wifi"
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
