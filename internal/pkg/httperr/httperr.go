package httperr

import (
	"encoding/json"
	"net/http"
)

// Response is the error body the panel's client code expects. The shape
// is a wire contract: a single "error" string, occasionally with extra
// fields alongside it (check-admin adds is_super_admin).
type Response struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: message})
}

// WriteFields writes an error body with additional fields merged next to
// the error message.
func WriteFields(w http.ResponseWriter, status int, message string, fields map[string]interface{}) {
	body := map[string]interface{}{"error": message}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
