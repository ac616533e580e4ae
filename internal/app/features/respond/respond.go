// internal/app/features/respond/respond.go

// Package respond writes the JSON envelope every API endpoint uses.
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Counts  interface{} `json:"counts,omitempty"`
}

// JSON writes a success envelope with the given payload.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// JSONCounts writes a success envelope carrying operation counts, used
// by the delete, restore, and cleanup endpoints.
func JSONCounts(w http.ResponseWriter, status int, counts interface{}) {
	write(w, status, Envelope{Success: true, Counts: counts})
}

// Error writes a failure envelope with a message.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
