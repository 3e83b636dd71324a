// SPDX-License-Identifier: MIT

package counter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasekit/lifecount/internal/phase"
)

func TestNew_AllKeysZero(t *testing.T) {
	c := New()
	snap := c.Snapshot()

	require.Len(t, snap, 5)
	for _, p := range phase.All() {
		n, ok := snap[p]
		require.True(t, ok, "missing key %s", p)
		assert.Zero(t, n)
	}
}

func TestRecord_CountsMatchOccurrences(t *testing.T) {
	c := New()
	seq := []phase.Phase{
		phase.Created, phase.Started, phase.Resumed,
		phase.Paused, phase.Resumed, phase.Paused,
		phase.Stopped, phase.Started, phase.Resumed,
	}
	for _, p := range seq {
		c.Record(p)
	}

	want := State{
		phase.Created: 1,
		phase.Started: 2,
		phase.Resumed: 3,
		phase.Paused:  2,
		phase.Stopped: 1,
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_ReturnsUpdatedSnapshot(t *testing.T) {
	c := New()
	snap := c.Record(phase.Created)
	assert.EqualValues(t, 1, snap[phase.Created])
	assert.EqualValues(t, 0, snap[phase.Started])
}

func TestSnapshot_IsIsolatedCopy(t *testing.T) {
	c := New()
	snap := c.Snapshot()
	snap[phase.Created] = 99

	assert.EqualValues(t, 0, c.Snapshot()[phase.Created],
		"mutating a snapshot must not affect the counter")
}

func TestReset_AllZero(t *testing.T) {
	c := New()
	c.Record(phase.Created)
	c.Record(phase.Started)

	snap := c.Reset()
	for _, p := range phase.All() {
		assert.Zero(t, snap[p])
	}
	for _, p := range phase.All() {
		assert.Zero(t, c.Snapshot()[p])
	}
}

func TestScenario_FirstLaunch(t *testing.T) {
	c := New()
	c.Record(phase.Created)
	c.Record(phase.Started)
	c.Record(phase.Resumed)

	want := State{
		phase.Created: 1,
		phase.Started: 1,
		phase.Resumed: 1,
		phase.Paused:  0,
		phase.Stopped: 0,
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
