package scoring

import "math"

// Compute returns the weighted mean of scores under weights, that is
// sum(score*weight) / sum(weight).
//
// When the weights total zero the divisor falls back to 1, so the result is
// the raw weighted sum (0 when every weight is 0) rather than NaN. The mean
// is taken over Shares, so arbitrarily large finite weights cannot overflow.
func Compute(scores ScoreMapping, weights WeightSource) float64 {
	return weightedMean(scores, Shares(weights))
}

func weightedMean(scores ScoreMapping, shares WeightSet) float64 {
	var index float64
	for _, c := range Categories {
		index += scores[c] * shares[c]
	}
	// Only reachable with non-finite scores handed straight to Replace.
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return 0
	}
	return index
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
