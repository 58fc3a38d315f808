package service

import (
	"net/http"
	"time"
)

// Version is the API version reported by the health and root endpoints.
const Version = "1.0.0"

// HealthResponse is the health endpoint's body.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth reports service liveness.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleRoot serves basic service info.
func HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Smart Split API",
		"version": Version,
	})
}
