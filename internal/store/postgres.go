package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS beacon_weight_slots (
			category   TEXT PRIMARY KEY,
			raw_value  TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate weight slots: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListWeightSlots(ctx context.Context) ([]WeightSlot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category, raw_value, updated_at
		FROM beacon_weight_slots
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list weight slots: %w", err)
	}
	defer rows.Close()

	var slots []WeightSlot
	for rows.Next() {
		var ws WeightSlot
		if err := rows.Scan(&ws.Category, &ws.Raw, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan weight slot: %w", err)
		}
		slots = append(slots, ws)
	}
	return slots, rows.Err()
}

func (s *PostgresStore) SaveWeightSlot(ctx context.Context, slot *WeightSlot) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO beacon_weight_slots (category, raw_value)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE
			SET raw_value = EXCLUDED.raw_value, updated_at = now()
		RETURNING updated_at`,
		slot.Category, slot.Raw,
	).Scan(&slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save weight slot %s: %w", slot.Category, err)
	}
	return nil
}
