package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrSlotNotFound = errors.New("slot not found")

// KV is a key/value backend able to hold named slots.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SlotRepository binds a single key of a KV backend. The serialized flashcard bank
// lives in exactly one slot.
type SlotRepository struct {
	kv  KV
	key string
}

// NewSlotRepository creates a repository for the given key.
func NewSlotRepository(kv KV, key string) *SlotRepository {
	return &SlotRepository{kv: kv, key: key}
}

// Key returns the slot name.
func (r *SlotRepository) Key() string {
	return r.key
}

// Load returns the slot contents or ErrSlotNotFound.
func (r *SlotRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", r.key, err)
	}
	return data, nil
}

// Save overwrites the slot.
func (r *SlotRepository) Save(ctx context.Context, data []byte) error {
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save slot %q: %w", r.key, err)
	}
	return nil
}

// Erase deletes the slot. Erasing a missing slot is not an error.
func (r *SlotRepository) Erase(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil && !errors.Is(err, ErrSlotNotFound) {
		return fmt.Errorf("erase slot %q: %w", r.key, err)
	}
	return nil
}
