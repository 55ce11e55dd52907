package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
)

const maxBodyBytes = 32 << 20

type ReportsHandler struct {
	loader       *ingest.Loader
	scores       *ScoresHandler
	reportURL    string
	fetchTimeout time.Duration
	allowURL     bool
}

// NewReportsHandler builds the report handlers. allowURL permits callers of
// Fetch to name their own URL; it must only be set when Fetch sits behind
// authentication.
func NewReportsHandler(l *ingest.Loader, scores *ScoresHandler, reportURL string, fetchTimeout time.Duration, allowURL bool) *ReportsHandler {
	return &ReportsHandler{loader: l, scores: scores, reportURL: reportURL, fetchTimeout: fetchTimeout, allowURL: allowURL}
}

type IngestResponse struct {
	ID         uuid.UUID   `json:"id"`
	Source     string      `json:"source"`
	Generation uint64      `json:"generation"`
	Result     interface{} `json:"result"`
}

type FetchRequest struct {
	URL string `json:"url,omitempty"`
}

// Submit ingests a report posted as the request body.
// POST /api/v1/reports
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "report too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.ingest(w, r, ingest.NewBytesSource("api", body))
}

// Fetch pulls the configured test report. Admin-authenticated callers may
// name another URL.
// POST /api/v1/reports/fetch
func (h *ReportsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	target := h.reportURL
	if req.URL != "" {
		if !h.allowURL {
			writeError(w, http.StatusForbidden, "url override requires an admin token")
			return
		}
		target = req.URL
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return
	}
	h.ingest(w, r, ingest.NewRemoteSource(target, h.fetchTimeout))
}

func (h *ReportsHandler) ingest(w http.ResponseWriter, r *http.Request, src ingest.Source) {
	res := h.loader.Run(r.Context(), src)
	if !res.OK() {
		writeJSON(w, ingestStatus(res.Err), map[string]string{
			"error": res.Err.Error(),
			"id":    res.ID.String(),
		})
		return
	}
	writeJSON(w, http.StatusOK, IngestResponse{
		ID:         res.ID,
		Source:     res.Source,
		Generation: res.Generation,
		Result:     h.scores.recompute(true),
	})
}
