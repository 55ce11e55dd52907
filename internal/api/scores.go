package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Beacon/internal/hermes"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// ResultObserver receives every recompute served by the API.
type ResultObserver interface {
	ObserveResult(res scoring.Result)
}

type ScoresHandler struct {
	session   *scoring.Session
	publisher *hermes.Publisher
	observer  ResultObserver
}

func NewScoresHandler(s *scoring.Session, p *hermes.Publisher, o ResultObserver) *ScoresHandler {
	return &ScoresHandler{session: s, publisher: p, observer: o}
}

// Get returns the current view without announcing it.
// GET /api/v1/scores
func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recompute(false))
}

// Recompute evaluates the current scores under the current weights and
// publishes the result.
// POST /api/v1/recompute
func (h *ScoresHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recompute(true))
}

func (h *ScoresHandler) recompute(announce bool) scoring.Result {
	res := h.session.Recompute()
	if h.observer != nil {
		h.observer.ObserveResult(res)
	}
	if announce && h.publisher != nil {
		h.publisher.IndexRecomputed(res)
	}
	return res
}
