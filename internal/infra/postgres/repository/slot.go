package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/teachme-bot/internal/infra/postgres"
	"github.com/aliskhannn/teachme-bot/internal/repository"
)

// SlotStore keeps named slots in the storage_slots table.
// Values are TEXT rather than JSONB so the topic order inside the document survives.
type SlotStore struct {
	db postgres.DBTX
}

// NewSlotStore creates a new SlotStore with the provided database handle.
func NewSlotStore(db postgres.DBTX) *SlotStore {
	return &SlotStore{db: db}
}

// EnsureSchema creates the slots table if it does not exist.
func (s *SlotStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS storage_slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create storage_slots: %w", err)
	}

	return nil
}

// Get returns the slot value.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM storage_slots WHERE key = $1`

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}

	return []byte(value), nil
}

// Put inserts or overwrites the slot value.
func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("put slot: %w", err)
	}

	return nil
}

// Delete removes the slot.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM storage_slots WHERE key = $1`

	result, err := s.db.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrSlotNotFound
	}

	return nil
}
