// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasekit/lifecount/internal/config"
)

var sample = map[string]int64{
	"Created": 2, "Started": 2, "Resumed": 2, "Paused": 1, "Stopped": 1,
}

// roundTrip exercises the shared Store contract against any backend.
func roundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot, "fresh store must report no snapshot")

	require.NoError(t, s.Save(ctx, sample))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	// Second save replaces the first.
	require.NoError(t, s.Save(ctx, map[string]int64{"Created": 9}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, got["Created"])
	_, ok := got["Started"]
	assert.False(t, ok, "replaced snapshot must not retain old keys")
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	roundTrip(t, s)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "counts.json"))
	defer s.Close()
	roundTrip(t, s)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)
	defer s.Close()

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	s, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sample))
	require.NoError(t, s.Close())

	// Simulated process teardown and recreation.
	s2, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := OpenRedisStore(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s)
}

func TestRedisStore_ConnectFailure(t *testing.T) {
	_, err := OpenRedisStore(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestOpen_SelectsBackend(t *testing.T) {
	cfg := config.AppConfig{StoreBackend: config.StoreMemory}
	s, err := Open(cfg)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)

	cfg = config.AppConfig{StoreBackend: "bolt"}
	_, err = Open(cfg)
	require.Error(t, err)
}
