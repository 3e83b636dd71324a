// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasekit/lifecount/internal/counter"
	"github.com/phasekit/lifecount/internal/phase"
	"github.com/phasekit/lifecount/internal/store"
	"github.com/phasekit/lifecount/internal/tracker"
)

func TestRun_RotationScript(t *testing.T) {
	tr := tracker.New(store.NewMemoryStore(), nil, tracker.Options{})
	d := New(tr, 0) // unpaced

	require.NoError(t, d.Run(context.Background(), Rotation))

	want := counter.State{
		phase.Created: 2,
		phase.Started: 2,
		phase.Resumed: 2,
		phase.Paused:  0,
		phase.Stopped: 0,
	}
	if diff := cmp.Diff(want, tr.Snapshot()); diff != "" {
		t.Errorf("rotation outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BackgroundScript(t *testing.T) {
	tr := tracker.New(store.NewMemoryStore(), nil, tracker.Options{})
	d := New(tr, 0)

	require.NoError(t, d.Run(context.Background(), Background))

	snap := tr.Snapshot()
	assert.EqualValues(t, 1, snap[phase.Created])
	assert.EqualValues(t, 2, snap[phase.Started])
	assert.EqualValues(t, 2, snap[phase.Resumed])
	assert.EqualValues(t, 1, snap[phase.Paused])
	assert.EqualValues(t, 1, snap[phase.Stopped])
}

func TestRun_CancelledContext(t *testing.T) {
	tr := tracker.New(store.NewMemoryStore(), nil, tracker.Options{})
	d := New(tr, 1) // paced, so cancellation lands inside Wait

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := d.Run(ctx, Background)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay interrupted")

	// The replay must have stopped well short of the full script.
	assert.Less(t, tr.Snapshot()[phase.Started], int64(2))
}

func TestRun_EmptyScript(t *testing.T) {
	tr := tracker.New(store.NewMemoryStore(), nil, tracker.Options{})
	d := New(tr, 0)

	require.NoError(t, d.Run(context.Background(), nil))
	for _, p := range phase.All() {
		assert.Zero(t, tr.Snapshot()[p])
	}
}
