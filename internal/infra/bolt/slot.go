// Package bolt stores named slots in a single bbolt file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/aliskhannn/teachme-bot/internal/repository"
)

const slotBucket = "slots"

// SlotStore implements repository.KV on top of bbolt.
type SlotStore struct {
	db *bolt.DB
}

// Open opens or creates the database file and its bucket.
func Open(path string) (*SlotStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create bbolt directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(slotBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &SlotStore{db: db}, nil
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}

// Get returns a copy of the slot value.
func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(slotBucket)).Get([]byte(key))
		if v == nil {
			return repository.ErrSlotNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SlotStore) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(slotBucket)).Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to put slot %q: %w", key, err)
		}
		return nil
	})
}

func (s *SlotStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(slotBucket))
		if b.Get([]byte(key)) == nil {
			return repository.ErrSlotNotFound
		}
		return b.Delete([]byte(key))
	})
}
