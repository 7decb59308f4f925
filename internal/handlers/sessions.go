package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/models"
	"github.com/ludobegins/por-ai/internal/session"
)

// SessionManager defines the session operations the API needs
type SessionManager interface {
	Create(ctx context.Context, clientID string) (*session.Session, error)
	Get(id string) (*session.Session, error)
	SetBasemap(id, name string) (*session.Session, error)
	SetLocale(ctx context.Context, id, requested string) (*session.Session, error)
}

// SessionHandler handles HTTP requests against live map sessions
type SessionHandler struct {
	sessions SessionManager
	catalog  *config.MapCatalog
}

// NewSessionHandler creates a new handler with the given manager
func NewSessionHandler(sessions SessionManager, catalog *config.MapCatalog) *SessionHandler {
	return &SessionHandler{sessions: sessions, catalog: catalog}
}

// CreateSession handles POST /api/sessions
// An empty body is allowed; a client id is issued when none is sent
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.sessions.Create(r.Context(), req.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SessionResponse{
		SessionID: s.ID,
		ClientID:  s.ClientID,
		Locale:    s.Locale().Code(),
		Basemap:   s.Basemap(),
		Basemaps:  h.basemapOptions(s),
		Style:     s.Map.Document(),
	})
}

// GetStyle handles GET /api/sessions/{sessionID}/style
func (h *SessionHandler) GetStyle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.Map.Document())
}

// SetBasemap handles PUT /api/sessions/{sessionID}/basemap
// Returns the style document of the new basemap with the journey on it
func (h *SessionHandler) SetBasemap(w http.ResponseWriter, r *http.Request) {
	var req models.BasemapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	s, err := h.sessions.SetBasemap(sessionID, req.Basemap)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, s.Map.Document())
}

// SetLocale handles PUT /api/sessions/{sessionID}/locale
func (h *SessionHandler) SetLocale(w http.ResponseWriter, r *http.Request) {
	var req models.LocaleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	s, err := h.sessions.SetLocale(r.Context(), sessionID, req.Locale)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}

	lc := s.Locale()
	writeJSON(w, http.StatusOK, models.LocaleResponse{
		Locale:       lc.Code(),
		Translations: lc.Translations(),
	})
}

// Hover handles POST /api/sessions/{sessionID}/hover
// Dispatches a pointer-enter on a feature and returns the resulting popup
func (h *SessionHandler) Hover(w http.ResponseWriter, r *http.Request) {
	var req models.HoverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	err := s.Map.Hover(req.Layer, req.FeatureIndex, orb.Point{req.Lng, req.Lat})
	if err != nil {
		h.writeSessionError(w, s.ID, err)
		return
	}

	resp := models.PopupResponse{}
	if p, open := s.Map.Popup(); open {
		resp = models.PopupResponse{
			Open:    true,
			Lng:     p.LngLat.Lon(),
			Lat:     p.LngLat.Lat(),
			HTML:    p.HTML,
			Content: p.Content,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Leave handles POST /api/sessions/{sessionID}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req models.LeaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Layer == "" {
		writeError(w, http.StatusBadRequest, "layer is required", nil)
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Map.Leave(req.Layer)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionID parameter is required", nil)
		return nil, false
	}

	s, err := h.sessions.Get(sessionID)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, sessionID string, err error) {
	status := http.StatusInternalServerError
	message := "Session request failed"

	switch {
	case errors.Is(err, session.ErrNotFound):
		status, message = http.StatusNotFound, "Session not found"
	case errors.Is(err, session.ErrUnknownBasemap):
		status, message = http.StatusBadRequest, "Unknown basemap"
	case errors.Is(err, display.ErrUnknownLayer), errors.Is(err, display.ErrFeatureNotFound):
		status, message = http.StatusNotFound, "Feature not found"
	}

	writeJSON(w, status, ErrorResponse{
		Error: message,
		Details: map[string]interface{}{
			"sessionId": sessionID,
			"internal":  err.Error(),
		},
	})
}

func (h *SessionHandler) basemapOptions(s *session.Session) []models.BasemapOption {
	lc := s.Locale()
	options := make([]models.BasemapOption, 0, len(h.catalog.Basemaps))
	for _, b := range h.catalog.Basemaps {
		label := b.Name
		if b.LabelKey != "" {
			label = lc.T(b.LabelKey)
		}
		options = append(options, models.BasemapOption{Basemap: b, Label: label})
	}
	return options
}
