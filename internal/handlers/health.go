package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/models"
)

// Pinger checks storage connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	store    Pinger
	journey  *journey.Journey
	sessions func() int
}

// NewHealthHandler creates a health handler. sessions reports the live
// session count and may be nil.
func NewHealthHandler(store Pinger, j *journey.Journey, sessions func() int) *HealthHandler {
	return &HealthHandler{store: store, journey: j, sessions: sessions}
}

// GetHealth handles GET /health
// Checks database connectivity
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "ok",
		Database:  "connected",
		Stops:     len(h.journey.Stops),
		Timestamp: time.Now().UTC(),
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions()
	}

	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetHealthz handles GET /healthz
func (h *HealthHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
