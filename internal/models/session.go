package models

import (
	"errors"
	"math"
	"strings"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/popup"
)

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	ClientID string `json:"clientId"`
}

// SessionResponse describes a newly created session
type SessionResponse struct {
	SessionID string           `json:"sessionId"`
	ClientID  string           `json:"clientId"`
	Locale    string           `json:"locale"`
	Basemap   string           `json:"basemap"`
	Basemaps  []BasemapOption  `json:"basemaps"`
	Style     display.Document `json:"style"`
}

// BasemapOption is one entry of the basemap switcher, labelled in the
// session's language
type BasemapOption struct {
	config.Basemap
	Label string `json:"label"`
}

// BasemapRequest is the body of PUT /api/sessions/{sessionID}/basemap
type BasemapRequest struct {
	Basemap string `json:"basemap"`
}

// Validate checks the request
func (b *BasemapRequest) Validate() error {
	if strings.TrimSpace(b.Basemap) == "" {
		return errors.New("basemap is required")
	}
	return nil
}

// LocaleRequest is the body of PUT /api/sessions/{sessionID}/locale
type LocaleRequest struct {
	Locale string `json:"locale"`
}

// Validate checks the request
func (l *LocaleRequest) Validate() error {
	if strings.TrimSpace(l.Locale) == "" {
		return errors.New("locale is required")
	}
	return nil
}

// LocaleResponse carries a locale and its translation table
type LocaleResponse struct {
	Locale       string            `json:"locale"`
	Translations map[string]string `json:"translations"`
}

// HoverRequest is the body of POST /api/sessions/{sessionID}/hover.
// Lng is where the cursor is and may lie on any world copy.
type HoverRequest struct {
	Layer        string  `json:"layer"`
	FeatureIndex int     `json:"featureIndex"`
	Lng          float64 `json:"lng"`
	Lat          float64 `json:"lat"`
}

// Validate checks the request
func (h *HoverRequest) Validate() error {
	// Layer is required
	if h.Layer == "" {
		return errors.New("layer is required")
	}

	if h.FeatureIndex < 0 {
		return errors.New("featureIndex must not be negative")
	}

	// Latitude must be in valid range [-90, 90]
	if h.Lat < -90 || h.Lat > 90 {
		return errors.New("lat out of range: must be between -90 and 90")
	}

	// One world copy either side of [-180, 180]
	if math.IsNaN(h.Lng) || h.Lng < -540 || h.Lng > 540 {
		return errors.New("lng out of range: must be between -540 and 540")
	}

	return nil
}

// LeaveRequest is the body of POST /api/sessions/{sessionID}/leave
type LeaveRequest struct {
	Layer string `json:"layer"`
}

// PopupResponse is the popup opened by a hover, or Open=false when the
// hover did not produce one
type PopupResponse struct {
	Open    bool          `json:"open"`
	Lng     float64       `json:"lng,omitempty"`
	Lat     float64       `json:"lat,omitempty"`
	HTML    string        `json:"html,omitempty"`
	Content popup.Content `json:"content"`
}
