package scoring

import (
	"fmt"
	"math"
	"strconv"
)

// CategoryResult captures one category's contribution to the composite index.
type CategoryResult struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Clamped  float64  `json:"clamped"`
	Label    string   `json:"label"`
	Weight   float64  `json:"weight"`
	// Share is Weight as a fraction of the total weight; Weighted is the
	// category's contribution to the index (Score * Share).
	Share    float64  `json:"share"`
	Weighted float64  `json:"weighted"`
}

// Result is the presenter view of a recompute: clamped per-category scores,
// the composite index and a summary of the weights that produced it.
type Result struct {
	Categories []CategoryResult `json:"categories"`
	Index      float64          `json:"index"`
	IndexText  string           `json:"index_text"`
	Weights    string           `json:"weights_summary"`
	Generation uint64           `json:"generation"`
}

// Evaluate builds the full Result for scores under weights. Each weight is
// read once so the breakdown and the index agree even if the source changes
// concurrently.
func Evaluate(scores ScoreMapping, weights WeightSource) Result {
	var snapshot WeightSet
	for _, c := range Categories {
		snapshot[c] = weights.Weight(c)
	}

	shares := Shares(snapshot)

	res := Result{
		Categories: make([]CategoryResult, 0, numCategories),
		Index:      weightedMean(scores, shares),
		Weights:    Summary(snapshot),
	}
	res.IndexText = FormatIndex(res.Index)

	for _, c := range Categories {
		clamped := ClampScore(scores[c])
		res.Categories = append(res.Categories, CategoryResult{
			Category: c,
			Name:     c.Label(),
			Score:    scores[c],
			Clamped:  clamped,
			Label:    ScoreLabel(clamped),
			Weight:   snapshot[c],
			Share:    shares[c],
			Weighted: scores[c] * shares[c],
		})
	}
	return res
}

// Category returns the result entry for c.
func (r Result) Category(c Category) CategoryResult {
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr
		}
	}
	return CategoryResult{Category: c, Name: c.Label()}
}

// ClampScore bounds a score to [0, 100] for display.
func ClampScore(score float64) float64 {
	return clamp(score, 0, 100)
}

// ScoreLabel renders a clamped score as "N / 100", rounding half up.
func ScoreLabel(clamped float64) string {
	return fmt.Sprintf("%d / 100", int(math.Floor(clamped+0.5)))
}

// FormatIndex renders the composite index with one decimal place.
func FormatIndex(index float64) string {
	return strconv.FormatFloat(index, 'f', 1, 64)
}
