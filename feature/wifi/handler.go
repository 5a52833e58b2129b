package wifi

import (
	"context"
	"errors"
	"net/http"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
	"hotspot-control/core/wifi"

	"go.uber.org/zap"
)

// Handler handles HTTP requests for the hotspot.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the wifi routes.
func (h *Handler) RegisterRoutes(r *router.Router) {
	r.Post("/api/wifi/start", h.HandleStart)
	r.Post("/api/wifi/stop", h.HandleStop)
}

// HandleStart starts the hotspot.
func (h *Handler) HandleStart(c *router.Context) *protocol.Response {
	return h.toggle(c, h.service.Start, "WiFi hotspot started", "Failed to start WiFi hotspot")
}

// HandleStop stops the hotspot.
func (h *Handler) HandleStop(c *router.Context) *protocol.Response {
	return h.toggle(c, h.service.Stop, "WiFi hotspot stopped", "Failed to stop WiFi hotspot")
}

func (h *Handler) toggle(c *router.Context, fn func(context.Context) error, ok, failed string) *protocol.Response {
	if err := fn(c.Context()); err != nil {
		c.Logger.Error(failed, zap.Error(err))
		return protocol.JSON(http.StatusOK, map[string]any{
			"success": false,
			"error":   failed + ": " + reason(err),
		})
	}
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": ok,
	})
}

// reason maps controller errors to a message safe to return to clients.
func reason(err error) string {
	switch {
	case errors.Is(err, wifi.ErrNotConfigured):
		return "controller not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "controller error"
	}
}
