// SPDX-License-Identifier: MIT

// Package store persists counter snapshots across destroy/recreate
// cycles. Backends share one contract: a snapshot is a plain label->count
// map, and a missing snapshot is reported as ErrNoSnapshot, never as a
// fatal condition.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/phasekit/lifecount/internal/config"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
// Callers start from zero counts in that case.
var ErrNoSnapshot = errors.New("no snapshot persisted")

// Store is the persistence boundary for counter snapshots.
type Store interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, data map[string]int64) error
	// Load returns the last saved snapshot, or ErrNoSnapshot.
	Load(ctx context.Context) (map[string]int64, error)
	// Close releases backend resources.
	Close() error
}

// Open creates the snapshot store selected by the configuration.
func Open(cfg config.AppConfig) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreBadger:
		return OpenBadgerStore(cfg.DataDir)
	case config.StoreRedis:
		return OpenRedisStore(RedisConfig{Addr: cfg.RedisAddr})
	case config.StoreFile:
		return NewFileStore(cfg.SnapshotPath), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
