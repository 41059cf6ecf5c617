package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Notice mirrors the client's notification taxonomy: success / error / info.
type Notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeNotice(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, Notice{Type: typ, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeNotice(w, status, "error", msg)
}

// decodeJSON reads a request body into dst, capping the body size.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
