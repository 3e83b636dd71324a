// SPDX-License-Identifier: MIT

package phase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KnownLabels(t *testing.T) {
	for _, p := range All() {
		got, err := Parse(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestParse_CaseInsensitive(t *testing.T) {
	got, err := Parse("resumed")
	require.NoError(t, err)
	assert.Equal(t, Resumed, got)

	got, err = Parse("STOPPED")
	require.NoError(t, err)
	assert.Equal(t, Stopped, got)
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("Destroyed")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPhase)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestOrder_Stable(t *testing.T) {
	want := []string{"Created", "Started", "Resumed", "Paused", "Stopped"}
	got := make([]string, 0, len(Order))
	for _, p := range Order {
		got = append(got, p.String())
	}
	assert.Equal(t, want, got)
}

func TestPhase_JSONRoundTrip(t *testing.T) {
	buf, err := json.Marshal(Paused)
	require.NoError(t, err)
	assert.Equal(t, `"Paused"`, string(buf))

	var p Phase
	require.NoError(t, json.Unmarshal(buf, &p))
	assert.Equal(t, Paused, p)
}

func TestCanFollow_ForwardWalk(t *testing.T) {
	walk := []Phase{Created, Started, Resumed, Paused, Stopped, Started, Resumed}
	for i := 1; i < len(walk); i++ {
		assert.True(t, CanFollow(walk[i-1], walk[i]),
			"%s should follow %s", walk[i], walk[i-1])
	}
}

func TestCanFollow_Recreate(t *testing.T) {
	// Destroy/recreate: Stopped may be followed by Created of a fresh component.
	assert.True(t, CanFollow(Stopped, Created))
}

func TestCanFollow_Illegal(t *testing.T) {
	assert.False(t, CanFollow(Created, Resumed))
	assert.False(t, CanFollow(Resumed, Started))
	assert.False(t, CanFollow(Paused, Resumed))
}
