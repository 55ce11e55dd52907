package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Beacon/internal/hermes"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
	"github.com/MikeSquared-Agency/Beacon/internal/store"
)

type WeightsHandler struct {
	registry  *scoring.Registry
	store     store.Store
	publisher *hermes.Publisher
	scores    *ScoresHandler
}

func NewWeightsHandler(reg *scoring.Registry, s store.Store, p *hermes.Publisher, scores *ScoresHandler) *WeightsHandler {
	return &WeightsHandler{registry: reg, store: s, publisher: p, scores: scores}
}

type WeightsResponse struct {
	Slots   map[string]string  `json:"slots"`
	Weights map[string]float64 `json:"weights"`
	Shares  map[string]float64 `json:"shares"`
	Summary string             `json:"summary"`
}

// UpdateWeightRequest carries the raw slot value. Value may be a JSON string
// or number; whatever it holds is stored as typed and coerced on read.
type UpdateWeightRequest struct {
	Value json.RawMessage `json:"value"`
}

// List returns the raw slots and the weights they coerce to.
// GET /api/v1/weights
func (h *WeightsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// Update stores new raw input for one category.
// PUT /api/v1/weights/{category}
func (h *WeightsHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := scoring.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	var req UpdateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raw, ok := rawValue(req.Value)
	if !ok {
		writeError(w, http.StatusBadRequest, "value must be a string or number")
		return
	}

	if h.store != nil {
		if err := h.store.SaveWeightSlot(r.Context(), &store.WeightSlot{Category: c.Key(), Raw: raw}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := h.registry.Set(c, raw); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.publisher != nil {
		h.publisher.WeightUpdated(c, raw)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"weights": h.view(),
		"result":  h.scores.recompute(true),
	})
}

func (h *WeightsHandler) view() WeightsResponse {
	slots := h.registry.Slots()
	ws := h.registry.Weights()
	shares := scoring.Shares(ws)
	resp := WeightsResponse{
		Slots:   make(map[string]string, len(scoring.Categories)),
		Weights: make(map[string]float64, len(scoring.Categories)),
		Shares:  make(map[string]float64, len(scoring.Categories)),
		Summary: scoring.Summary(ws),
	}
	for _, c := range scoring.Categories {
		resp.Slots[c.Key()] = slots[c]
		resp.Weights[c.Key()] = ws[c]
		resp.Shares[c.Key()] = shares[c]
	}
	return resp
}

func rawValue(msg json.RawMessage) (string, bool) {
	if len(msg) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
