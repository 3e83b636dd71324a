// SPDX-License-Identifier: MIT

package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/phasekit/lifecount/internal/counter"
	"github.com/phasekit/lifecount/internal/phase"
	"github.com/phasekit/lifecount/internal/store"
)

type fakeJournal struct {
	mu      sync.Mutex
	entries []string
	fail    bool
}

func (f *fakeJournal) Append(_ context.Context, phase string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("journal unavailable")
	}
	f.entries = append(f.entries, phase)
	return nil
}

func (f *fakeJournal) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	return nil
}

func TestRecord_UpdatesCountsAndJournal(t *testing.T) {
	jnl := &fakeJournal{}
	tr := New(store.NewMemoryStore(), jnl, Options{})
	ctx := context.Background()

	tr.Record(ctx, phase.Created)
	tr.Record(ctx, phase.Started)
	snap := tr.Record(ctx, phase.Resumed)

	assert.EqualValues(t, 1, snap[phase.Resumed])
	assert.Equal(t, []string{"Created", "Started", "Resumed"}, jnl.entries)
}

func TestRecord_JournalFailureDoesNotBlockCounting(t *testing.T) {
	jnl := &fakeJournal{fail: true}
	tr := New(store.NewMemoryStore(), jnl, Options{})

	snap := tr.Record(context.Background(), phase.Created)
	assert.EqualValues(t, 1, snap[phase.Created])
}

func TestRecord_NilJournal(t *testing.T) {
	tr := New(store.NewMemoryStore(), nil, Options{})
	snap := tr.Record(context.Background(), phase.Created)
	assert.EqualValues(t, 1, snap[phase.Created])
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	tr := New(st, nil, Options{})
	tr.Record(ctx, phase.Created)
	tr.Record(ctx, phase.Started)
	tr.Record(ctx, phase.Resumed)
	require.NoError(t, tr.Save(ctx))

	// Fresh tracker over the same store: the destroy/recreate cycle.
	tr2 := New(st, nil, Options{})
	tr2.Restore(ctx)
	tr2.Record(ctx, phase.Created)
	tr2.Record(ctx, phase.Started)
	tr2.Record(ctx, phase.Resumed)

	want := counter.State{
		phase.Created: 2,
		phase.Started: 2,
		phase.Resumed: 2,
		phase.Paused:  0,
		phase.Stopped: 0,
	}
	if diff := cmp.Diff(want, tr2.Snapshot()); diff != "" {
		t.Errorf("post-recreate snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore_EmptyStoreStartsFromZero(t *testing.T) {
	tr := New(store.NewMemoryStore(), nil, Options{})
	tr.Restore(context.Background())

	for _, p := range phase.All() {
		assert.Zero(t, tr.Snapshot()[p])
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, map[string]int64) error { return errors.New("io error") }
func (failingStore) Load(context.Context) (map[string]int64, error) {
	return nil, errors.New("corrupt block")
}
func (failingStore) Close() error { return nil }

func TestRestore_CorruptStoreDegradesToZero(t *testing.T) {
	tr := New(failingStore{}, nil, Options{})
	tr.Restore(context.Background())

	for _, p := range phase.All() {
		assert.Zero(t, tr.Snapshot()[p])
	}
}

func TestSave_SurfacesStoreError(t *testing.T) {
	tr := New(failingStore{}, nil, Options{})
	require.Error(t, tr.Save(context.Background()))
}

func TestReset_ClearsCountsAndJournal(t *testing.T) {
	jnl := &fakeJournal{}
	tr := New(store.NewMemoryStore(), jnl, Options{})
	ctx := context.Background()

	tr.Record(ctx, phase.Created)
	tr.Record(ctx, phase.Started)

	snap := tr.Reset(ctx)
	for _, p := range phase.All() {
		assert.Zero(t, snap[p])
	}
	assert.Empty(t, jnl.entries)
}

func TestRender_FixedOrder(t *testing.T) {
	tr := New(store.NewMemoryStore(), nil, Options{})
	ctx := context.Background()
	tr.Record(ctx, phase.Created)

	assert.Equal(t, "Created: 1\nStarted: 0\nResumed: 0\nPaused: 0\nStopped: 0", tr.Render())
}

func TestRecord_ConcurrentDeliveriesSerialized(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tr := New(store.NewMemoryStore(), nil, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	const workers = 8
	const perWorker = 50
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perWorker; n++ {
				tr.Record(ctx, phase.Resumed)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, workers*perWorker, tr.Snapshot()[phase.Resumed])
}

func TestStrictMode_AcceptsIllegalDelivery(t *testing.T) {
	tr := New(store.NewMemoryStore(), nil, Options{Strict: true})
	ctx := context.Background()

	// Out-of-order delivery is still counted; strict mode only observes.
	tr.Record(ctx, phase.Resumed)
	snap := tr.Record(ctx, phase.Stopped)

	assert.EqualValues(t, 1, snap[phase.Resumed])
	assert.EqualValues(t, 1, snap[phase.Stopped])
}
