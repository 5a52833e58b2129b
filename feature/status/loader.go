package status

import (
	"hotspot-control/core/router"
	"hotspot-control/core/statuscache"

	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new status feature.
func NewFeature(cache *statuscache.Cache, developerMode bool, logger *zap.Logger) *Feature {
	svc := NewService(cache, logger)
	return &Feature{service: svc, handler: NewHandler(svc, developerMode)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "status"
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
