package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"edgeviewer/internal/logger"
)

type responder struct {
	logger logger.Logger
}

// writeJSON encodes data before writing the header, so an unencodable
// value becomes a 500 instead of a truncated 200.
func (r responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		r.logger.Error("HTTPServer", err, map[string]interface{}{"status": status})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"response encoding failed"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		r.logger.Error("HTTPServer", err, map[string]interface{}{"status": status})
	}
}

func (r responder) writeError(w http.ResponseWriter, status int, msg string) {
	r.writeJSON(w, status, map[string]string{"error": msg})
}

func (r responder) ok(w http.ResponseWriter, data interface{}) {
	r.writeJSON(w, http.StatusOK, data)
}

func (r responder) badRequest(w http.ResponseWriter, msg string) {
	r.writeError(w, http.StatusBadRequest, msg)
}

func (r responder) notFound(w http.ResponseWriter, msg string) {
	r.writeError(w, http.StatusNotFound, msg)
}

func (r responder) methodNotAllowed(w http.ResponseWriter) {
	r.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r responder) internalError(w http.ResponseWriter, msg string) {
	r.writeError(w, http.StatusInternalServerError, msg)
}
