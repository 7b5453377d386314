package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/spend-squad/internal/common"
	bolt "go.etcd.io/bbolt"
)

// BucketBudget holds every key the application writes.
const BucketBudget = "budget"

// BoltStorage implements service.Storage on a bbolt file.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens or creates the bbolt database at dbPath.
func NewBoltStorage(dbPath string) (*BoltStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketBudget)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketBudget, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

// Close closes the database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// Get returns the blob stored under key.
func (s *BoltStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketBudget)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("key %q: %w", key, common.ErrNotFound)
		}
		// bbolt memory is only valid inside the transaction.
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

// Put stores value under key.
func (s *BoltStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: value", ErrNilParameter)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketBudget)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write key %q: %v", common.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BoltStorage) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketBudget)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete key %q: %v", common.ErrStorage, key, err)
	}
	return nil
}
