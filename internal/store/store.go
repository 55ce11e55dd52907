package store

import (
	"context"
	"time"
)

// WeightSlot is the persisted raw input for one category weight.
type WeightSlot struct {
	Category  string    `json:"category"`
	Raw       string    `json:"raw"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists weight configuration. Score history is never stored.
type Store interface {
	ListWeightSlots(ctx context.Context) ([]WeightSlot, error)
	SaveWeightSlot(ctx context.Context, slot *WeightSlot) error
	Close() error
}
