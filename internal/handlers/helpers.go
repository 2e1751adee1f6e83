package handlers

import (
	"encoding/json"
	"net/http"
)

// RequireMethod reports whether r uses method (HEAD passes for GET). On a
// mismatch it answers 405 with an Allow header and a JSON error body.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	return false
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes the {"error": true, "message": ...} shape tool results
// use, so REST and MCP callers check failures the same way.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, map[string]any{
		"error":   true,
		"message": message,
	})
}
