package web

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the failure envelope every endpoint uses.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the standard {"error": msg} envelope.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondRawError writes an error envelope whose detail is the raw JSON
// body received from the provider, falling back to msg when the body is
// not valid JSON.
func respondRawError(w http.ResponseWriter, status int, body []byte, msg string) {
	if len(body) > 0 && json.Valid(body) {
		respondJSON(w, status, map[string]json.RawMessage{"error": body})
		return
	}
	respondError(w, status, msg)
}
