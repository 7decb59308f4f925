package models

import "time"

// HealthResponse is the JSON response for GET /health
type HealthResponse struct {
	Status    string    `json:"status"`   // "ok", "error"
	Database  string    `json:"database"` // "connected", "disconnected"
	Sessions  int       `json:"sessions"`
	Stops     int       `json:"stops"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}
