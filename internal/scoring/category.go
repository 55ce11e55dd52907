package scoring

import (
	"encoding/json"
	"fmt"
)

// Category identifies one of the four Lighthouse audit categories.
type Category int

const (
	Performance Category = iota
	Accessibility
	BestPractices
	SEO

	numCategories
)

// Categories lists every category in display order.
var Categories = [numCategories]Category{Performance, Accessibility, BestPractices, SEO}

var categoryKeys = [numCategories]string{
	Performance:   "performance",
	Accessibility: "accessibility",
	BestPractices: "best-practices",
	SEO:           "seo",
}

var categoryLabels = [numCategories]string{
	Performance:   "Performance",
	Accessibility: "Accessibility",
	BestPractices: "Best Practices",
	SEO:           "SEO",
}

// Key returns the identifier used for the category inside a Lighthouse report.
func (c Category) Key() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if !c.valid() {
		return c.Key()
	}
	return categoryLabels[c]
}

func (c Category) String() string { return c.Key() }

func (c Category) valid() bool { return c >= 0 && c < numCategories }

func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(categoryKeys[c]), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a report key such as "best-practices".
// Underscored forms ("best_practices") are accepted for config and URL use.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "performance":
		return Performance, true
	case "accessibility":
		return Accessibility, true
	case "best-practices", "best_practices":
		return BestPractices, true
	case "seo":
		return SEO, true
	}
	return 0, false
}

// ScoreMapping holds one 0-100 score per category. It is always complete;
// a category missing from the input reads as 0.
type ScoreMapping [numCategories]float64

// Get returns the score for c.
func (m ScoreMapping) Get(c Category) float64 { return m[c] }

// MarshalJSON encodes the mapping as an object keyed by report key.
func (m ScoreMapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, numCategories)
	for _, c := range Categories {
		out[c.Key()] = m[c]
	}
	return json.Marshal(out)
}
