// ABOUTME: JSON response helpers shared by the API handlers
// ABOUTME: Errors go out as {"error": "..."} with the matching status code

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON encodes a payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Warn("encoding response failed", "error", err)
	}
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
