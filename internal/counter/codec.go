// SPDX-License-Identifier: MIT

package counter

import (
	"fmt"
	"strings"

	"github.com/phasekit/lifecount/internal/phase"
)

// Serialize produces the persistence representation of a state: a plain
// map keyed by the stable phase labels. Every phase appears, including
// zero counts, so a restored snapshot is self-describing.
func Serialize(s State) map[string]int64 {
	out := make(map[string]int64, len(phase.Order))
	for _, p := range phase.Order {
		out[p.String()] = s[p]
	}
	return out
}

// Restore rebuilds a State from previously serialized data. It never
// fails: missing keys default to zero, as do negative or unparseable
// values. Corrupted persisted state must not break recreation.
func Restore(data map[string]int64) State {
	s := zeroState()
	for label, n := range data {
		p, err := phase.Parse(label)
		if err != nil {
			continue // stale or foreign key, ignore
		}
		if n < 0 {
			continue
		}
		s[p] = n
	}
	return s
}

// NewFromState returns a Counter primed with the given restored state.
func NewFromState(s State) *Counter {
	c := New()
	for _, p := range phase.Order {
		if n := s[p]; n > 0 {
			c.counts[p] = n
		}
	}
	return c
}

// Render formats a state as text, one `<PhaseName>: <count>` line per
// phase, in canonical order, newline-separated.
func Render(s State) string {
	var b strings.Builder
	for i, p := range phase.Order {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d", p, s[p])
	}
	return b.String()
}
