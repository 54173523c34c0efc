package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure. The
// message is a short client-facing string; internals stay in the logs.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// NoContent writes an empty success response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
