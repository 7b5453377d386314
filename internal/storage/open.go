package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/service"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Open creates the named backend at dbPath and prepares it for use.
func Open(ctx context.Context, backend, dbPath string) (service.Storage, error) {
	switch backend {
	case BackendSQLite, "":
		store, err := NewSQLiteStorage(dbPath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	case BackendBolt:
		return NewBoltStorage(dbPath)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, backend)
	}
}
