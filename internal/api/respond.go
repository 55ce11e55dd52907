package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// writeJSON encodes v before committing the status so an unencodable value
// becomes a 500 instead of a success with an empty body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		body, status = []byte(`{"error":"failed to encode response"}`), http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ingestStatus maps an ingestion failure to an HTTP status.
func ingestStatus(err error) int {
	var pe *scoring.ParseError
	var te *ingest.TransportError
	var sz *ingest.SizeError
	switch {
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity
	case errors.As(err, &te), errors.As(err, &sz):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
