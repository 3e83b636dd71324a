// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

const snapshotKey = "counts:snapshot"

// BadgerStore keeps the snapshot in an embedded badger database under the
// data directory. It is the default backend.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the badger database at
// <dataDir>/store.
func OpenBadgerStore(dataDir string) (*BadgerStore, error) {
	path := filepath.Join(dataDir, "store")
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Save(_ context.Context, data map[string]int64) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), buf)
	})
}

func (s *BadgerStore) Load(_ context.Context) (map[string]int64, error) {
	var out map[string]int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }
