package handlers

import (
	"net/http"

	"github.com/bobmcallan/bancs-mcp/internal/common"
)

// HealthHandler handles health check requests. It reports local state only
// and never calls the upstream API.
type HealthHandler struct {
	logger    *common.Logger
	endpoints int
	baseURL   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, endpoints int, baseURL string) *HealthHandler {
	return &HealthHandler{logger: logger, endpoints: endpoints, baseURL: baseURL}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"endpoints": h.endpoints,
		"base_url":  h.baseURL,
	})
}
