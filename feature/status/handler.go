package status

import (
	"net/http"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"go.uber.org/zap"
)

// Handler handles HTTP requests for host status.
type Handler struct {
	service       *Service
	developerMode bool
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, developerMode bool) *Handler {
	return &Handler{service: service, developerMode: developerMode}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(r *router.Router) {
	r.Get("/api/status", h.HandleStatus)
	r.Get("/api/system/info", h.HandleSystemInfo)
	r.Get("/api/debug/status", h.HandleDebugStatus)
}

// HandleStatus returns the cached snapshot.
func (h *Handler) HandleStatus(c *router.Context) *protocol.Response {
	snap, err := h.service.Status(c.Context())
	if err != nil {
		c.Logger.Error("Status snapshot failed", zap.Error(err))
		return router.InternalError()
	}
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    snap,
	})
}

// HandleSystemInfo returns the snapshot with host identity.
func (h *Handler) HandleSystemInfo(c *router.Context) *protocol.Response {
	info, err := h.service.SystemInfo(c.Context())
	if err != nil {
		c.Logger.Error("System info failed", zap.Error(err))
		return router.InternalError()
	}
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    info,
	})
}

// HandleDebugStatus returns a text report when developer mode is on.
func (h *Handler) HandleDebugStatus(c *router.Context) *protocol.Response {
	if !h.developerMode {
		return protocol.JSON(http.StatusForbidden, map[string]any{
			"success": false,
			"error":   "Developer mode is disabled",
		})
	}

	report, err := h.service.DebugReport(c.Context())
	if err != nil {
		c.Logger.Error("Debug report failed", zap.Error(err))
		return protocol.Text(http.StatusInternalServerError, "Debug report unavailable")
	}
	return protocol.Text(http.StatusOK, report)
}
