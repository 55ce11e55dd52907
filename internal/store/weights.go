package store

import (
	"context"
	"log/slog"

	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// LoadWeights copies persisted slots into reg. Rows naming an unknown
// category are skipped.
func LoadWeights(ctx context.Context, s Store, reg *scoring.Registry, logger *slog.Logger) (int, error) {
	slots, err := s.ListWeightSlots(ctx)
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, ws := range slots {
		c, ok := scoring.ParseCategory(ws.Category)
		if !ok {
			logger.Warn("skipping unknown weight slot", "category", ws.Category)
			continue
		}
		if err := reg.Set(c, ws.Raw); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}
