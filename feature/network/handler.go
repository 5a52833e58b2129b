package network

import (
	"net/http"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
)

// Handler handles HTTP requests for connectivity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the network routes.
func (h *Handler) RegisterRoutes(r *router.Router) {
	r.Get("/api/network/check", h.HandleCheck)
}

// HandleCheck checks the configured URLs.
func (h *Handler) HandleCheck(c *router.Context) *protocol.Response {
	report := h.service.Check(c.Context())
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}
