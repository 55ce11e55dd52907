package scoring

import (
	"log/slog"
	"sync"
)

// Session owns the latest parsed scores and recomputes the composite index
// against a live weight source. A new Session starts with all-zero scores,
// which is a complete and valid mapping.
type Session struct {
	weights WeightSource
	logger  *slog.Logger

	mu         sync.RWMutex
	scores     ScoreMapping
	generation uint64
}

// NewSession creates a Session reading weights from ws on every recompute.
func NewSession(ws WeightSource, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{weights: ws, logger: logger}
}

// Ingest parses raw and, on success, replaces every score at once.
// A ParseError leaves the current scores untouched.
func (s *Session) Ingest(raw any) error {
	scores, err := Parse(raw)
	if err != nil {
		s.logger.Warn("report rejected", "error", err)
		return err
	}
	s.Replace(scores)
	return nil
}

// IngestJSON is Ingest for undecoded report text.
func (s *Session) IngestJSON(data []byte) error {
	scores, err := ParseJSON(data)
	if err != nil {
		s.logger.Warn("report rejected", "error", err)
		return err
	}
	s.Replace(scores)
	return nil
}

// Replace swaps in a complete mapping and returns the new generation.
func (s *Session) Replace(scores ScoreMapping) uint64 {
	s.mu.Lock()
	s.scores = scores
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.logger.Debug("scores replaced",
		"generation", gen,
		"performance", scores[Performance],
		"accessibility", scores[Accessibility],
		"best_practices", scores[BestPractices],
		"seo", scores[SEO],
	)
	return gen
}

// Recompute evaluates the current scores under the current weights. It does
// not modify the session.
func (s *Session) Recompute() Result {
	s.mu.RLock()
	scores, gen := s.scores, s.generation
	s.mu.RUnlock()

	res := Evaluate(scores, s.weights)
	res.Generation = gen
	return res
}

// CurrentScores returns a copy of the stored, unclamped scores.
func (s *Session) CurrentScores() ScoreMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores
}

// Generation counts successful replacements; 0 means the initial all-zero
// scores are still in place.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Weights returns the weight source the session reads from.
func (s *Session) Weights() WeightSource { return s.weights }
