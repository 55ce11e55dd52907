//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE beacon_weight_slots")
		s.Close()
	})

	return s
}

func TestSaveAndListWeightSlots(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	slot := &WeightSlot{Category: "performance", Raw: "30"}
	if err := s.SaveWeightSlot(ctx, slot); err != nil {
		t.Fatalf("SaveWeightSlot failed: %v", err)
	}
	if slot.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	// Upsert replaces the raw value.
	if err := s.SaveWeightSlot(ctx, &WeightSlot{Category: "performance", Raw: "abc"}); err != nil {
		t.Fatalf("SaveWeightSlot upsert failed: %v", err)
	}
	if err := s.SaveWeightSlot(ctx, &WeightSlot{Category: "seo", Raw: "10"}); err != nil {
		t.Fatalf("SaveWeightSlot failed: %v", err)
	}

	slots, err := s.ListWeightSlots(ctx)
	if err != nil {
		t.Fatalf("ListWeightSlots failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Category != "performance" || slots[0].Raw != "abc" {
		t.Errorf("unexpected first slot %+v", slots[0])
	}
	if slots[1].Category != "seo" || slots[1].Raw != "10" {
		t.Errorf("unexpected second slot %+v", slots[1])
	}
}
