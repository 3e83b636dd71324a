// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in process memory. Used in tests and as
// an explicit "no persistence" mode.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]int64
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, data map[string]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]int64, len(data))
	for k, v := range data {
		copied[k] = v
	}
	s.data = copied
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoSnapshot
	}
	out := make(map[string]int64, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
