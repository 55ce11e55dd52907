package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// WeightSource supplies the current weight for a category. Implementations
// must return a finite, non-negative value.
type WeightSource interface {
	Weight(c Category) float64
}

// WeightSet is a fixed set of weights. Values are coerced on read.
type WeightSet [numCategories]float64

// EqualWeights returns a WeightSet giving every category the same weight.
func EqualWeights(w float64) WeightSet {
	return WeightSet{w, w, w, w}
}

func (w WeightSet) Weight(c Category) float64 { return CoerceValue(w[c]) }

// Shares returns each category's fraction of the total weight. Weights are
// scaled by the largest one before summing so the total stays finite for any
// finite input. When every weight is 0 the divisor falls back to 1 and every
// share is 0.
func Shares(ws WeightSource) WeightSet {
	var shares WeightSet
	var scale float64
	for _, c := range Categories {
		shares[c] = ws.Weight(c)
		if shares[c] > scale {
			scale = shares[c]
		}
	}
	if scale <= 0 {
		scale = 1
	}

	var total float64
	for _, c := range Categories {
		shares[c] /= scale
		total += shares[c]
	}
	if total <= 0 {
		total = 1
	}
	for _, c := range Categories {
		shares[c] /= total
	}
	return shares
}

// CoerceValue maps NaN, infinities and negatives to 0.
func CoerceValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// CoerceWeight converts raw user input to a weight. Blank input is 0, and
// anything that does not parse as a finite non-negative number is 0.
func CoerceWeight(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return CoerceValue(v)
}

// Registry holds one raw input slot per category, the way an edit box holds
// text. Slots are stored exactly as given and coerced on every read, so an
// update is visible to the next computation without any refresh step.
type Registry struct {
	mu    sync.RWMutex
	slots [numCategories]string
}

// NewRegistry creates a Registry seeded from raw slot values. Categories
// absent from raw start blank and read as 0.
func NewRegistry(raw map[Category]string) *Registry {
	r := &Registry{}
	for c, v := range raw {
		if c.valid() {
			r.slots[c] = v
		}
	}
	return r
}

// Set stores raw input for c.
func (r *Registry) Set(c Category, raw string) error {
	if !c.valid() {
		return fmt.Errorf("unknown category %d", int(c))
	}
	r.mu.Lock()
	r.slots[c] = raw
	r.mu.Unlock()
	return nil
}

// SetValue stores a numeric value for c.
func (r *Registry) SetValue(c Category, v float64) error {
	return r.Set(c, strconv.FormatFloat(v, 'f', -1, 64))
}

// Raw returns the stored slot text for c.
func (r *Registry) Raw(c Category) string {
	if !c.valid() {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slots[c]
}

// Weight returns the coerced weight for c. It never fails.
func (r *Registry) Weight(c Category) float64 {
	return CoerceWeight(r.Raw(c))
}

// Weights returns a snapshot of every coerced weight.
func (r *Registry) Weights() WeightSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var w WeightSet
	for _, c := range Categories {
		w[c] = CoerceWeight(r.slots[c])
	}
	return w
}

// Slots returns a snapshot of the raw slot text keyed by category.
func (r *Registry) Slots() map[Category]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Category]string, numCategories)
	for _, c := range Categories {
		out[c] = r.slots[c]
	}
	return out
}

// Summary renders the active weights as a single line, for example
// "Weights → Performance: 25%, Accessibility: 25%, Best Practices: 25%, SEO: 25%".
func Summary(ws WeightSource) string {
	parts := make([]string, 0, numCategories)
	for _, c := range Categories {
		parts = append(parts, fmt.Sprintf("%s: %s%%", c.Label(), formatWeight(ws.Weight(c))))
	}
	return "Weights → " + strings.Join(parts, ", ")
}

// formatWeight prints the shortest form of v, switching to exponent notation
// ("1e+21", "1.5e-7") outside [1e-6, 1e21) the way browsers print numbers.
func formatWeight(v float64) string {
	if abs := math.Abs(v); v == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
