package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"go.uber.org/zap"
)

// Handler handles HTTP requests for auth settings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(r *router.Router) {
	r.Post("/api/generate-key", h.HandleGenerateKey)
	r.Post("/api/toggle-auth", h.HandleToggleAuth)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// HandleGenerateKey replaces the API key.
func (h *Handler) HandleGenerateKey(c *router.Context) *protocol.Response {
	if !h.service.DeveloperMode() {
		return forbidden()
	}

	settings, err := h.service.GenerateKey()
	if err != nil {
		return h.failed(c, err)
	}
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "API key generated, server restarting",
		"data":    settings,
	})
}

// HandleToggleAuth turns key authentication on or off.
func (h *Handler) HandleToggleAuth(c *router.Context) *protocol.Response {
	if !h.service.DeveloperMode() {
		return forbidden()
	}

	var req toggleRequest
	if err := json.Unmarshal(c.Request.Body, &req); err != nil || req.Enabled == nil {
		return protocol.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   `Body must be {"enabled": true|false}`,
		})
	}

	settings, err := h.service.SetEnabled(*req.Enabled)
	if err != nil {
		return h.failed(c, err)
	}

	msg := "API key auth disabled, server restarting"
	if settings.Enabled {
		msg = "API key auth enabled, server restarting"
	}
	return protocol.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": msg,
		"data":    settings,
	})
}

func (h *Handler) failed(c *router.Context, err error) *protocol.Response {
	if errors.Is(err, ErrDeveloperMode) {
		return forbidden()
	}
	c.Logger.Error("Auth settings change failed", zap.Error(err))
	return protocol.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "Failed to apply auth settings",
	})
}

func forbidden() *protocol.Response {
	return protocol.JSON(http.StatusForbidden, map[string]any{
		"error":   "Forbidden",
		"message": "Developer mode required",
	})
}
