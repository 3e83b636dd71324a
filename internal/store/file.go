// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// FileStore persists the snapshot as a JSON document, written atomically
// so a crash mid-save never leaves a torn file behind.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshot store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, data map[string]int64) error {
	// renameio handles temp file creation, fsync and atomic rename.
	pending, err := renameio.NewPendingFile(s.path)
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace snapshot file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (map[string]int64, error) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	var out map[string]int64
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }
