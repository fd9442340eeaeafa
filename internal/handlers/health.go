package handlers

import (
	"net/http"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/telemetry"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	tools  func() int
	stats  func() telemetry.Stats
}

// NewHealthHandler creates a new health handler. tools and stats may be nil.
func NewHealthHandler(logger *common.Logger, tools func() int, stats func() telemetry.Stats) *HealthHandler {
	return &HealthHandler{logger: logger, tools: tools, stats: stats}
}

type healthResponse struct {
	Status    string           `json:"status"`
	Tools     int              `json:"tools"`
	Telemetry *telemetry.Stats `json:"telemetry,omitempty"`
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp := healthResponse{Status: "ok"}
	if h.tools != nil {
		resp.Tools = h.tools()
	}
	if h.stats != nil {
		s := h.stats()
		resp.Telemetry = &s
	}

	WriteJSON(w, http.StatusOK, resp)
}
