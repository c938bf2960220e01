package middleware

import (
	"encoding/json"
	"net/http"
)

// failure is the envelope written by middleware-terminated requests.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeFailure writes a terminal JSON failure envelope.
func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failure{Success: false, Message: message})
}
