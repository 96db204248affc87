// ABOUTME: Backend selection for the preference Store
// ABOUTME: Maps config.StorageConfig onto the SQLite, blob or in-memory store

package prefs

import (
	"context"
	"fmt"

	"github.com/2389/simplemarker/internal/config"
)

// Open returns the Store described by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case config.BackendBlob:
		return OpenBlobStore(ctx, cfg.BucketURL, cfg.Prefix)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
