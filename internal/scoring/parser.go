package scoring

import (
	"encoding/json"
	"fmt"
	"math"
)

// ParseError reports report content that cannot be navigated.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse report: %s: %v", e.Reason, e.Err)
	}
	return "parse report: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse extracts category scores from a decoded Lighthouse report.
//
// Each category is read from categories.<key>.score and scaled from the unit
// interval to 0-100. Missing members, members that are not objects and scores
// that are not usable numbers all yield 0, so the returned mapping is always
// complete. Only a value that is not an object at all is rejected.
func Parse(raw any) (ScoreMapping, error) {
	var scores ScoreMapping

	root, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return scores, &ParseError{Reason: "report is null"}
		}
		return scores, &ParseError{Reason: fmt.Sprintf("report is %T, want object", raw)}
	}

	cats, _ := root["categories"].(map[string]any)
	for _, c := range Categories {
		entry, _ := cats[c.Key()].(map[string]any)
		scores[c] = unitToPercent(entry["score"])
	}
	return scores, nil
}

// ParseJSON decodes report text and extracts its category scores.
func ParseJSON(data []byte) (ScoreMapping, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ScoreMapping{}, &ParseError{Reason: "invalid JSON", Err: err}
	}
	return Parse(raw)
}

func unitToPercent(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	scaled := f * 100
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return 0
	}
	return scaled
}
