package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"

	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
	"github.com/ludobegins/por-ai/internal/models"
)

// JourneyHandler serves the journey data and the translation tables
type JourneyHandler struct {
	journey  *journey.Journey
	segments *geojson.FeatureCollection
}

// NewJourneyHandler creates a handler for j. Segments are derived once.
func NewJourneyHandler(j *journey.Journey) *JourneyHandler {
	return &JourneyHandler{
		journey:  j,
		segments: journey.SegmentCollection(journey.DeriveSegments(j.Stops)),
	}
}

// GetPoints handles GET /api/journey/points
// Returns the stops exactly as loaded
func (h *JourneyHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	writeGeoJSON(w, h.journey.Collection)
}

// GetSegments handles GET /api/journey/segments
// Returns one LineString per consecutive pair of stops
func (h *JourneyHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	writeGeoJSON(w, h.segments)
}

// GetTranslations handles GET /api/i18n/{locale}
// Unsupported locales resolve to the closest supported one
func (h *JourneyHandler) GetTranslations(w http.ResponseWriter, r *http.Request) {
	requested := chi.URLParam(r, "locale")
	if strings.TrimSpace(requested) == "" {
		writeError(w, http.StatusBadRequest, "locale parameter is required", nil)
		return
	}

	lc := locale.New(requested)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, models.LocaleResponse{
		Locale:       lc.Code(),
		Translations: lc.Translations(),
	})
}

func writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode journey", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
