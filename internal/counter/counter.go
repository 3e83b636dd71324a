// SPDX-License-Identifier: MIT

// Package counter implements the phase-entry counter at the heart of
// lifecount: a passive accumulator over the closed phase set with
// snapshot, render and persist/restore support.
package counter

import (
	"github.com/phasekit/lifecount/internal/phase"
)

// State maps every phase to the number of times it has been entered.
// Every snapshot carries all five keys; counts are non-negative and only
// ever move upward except through an explicit Reset.
type State map[phase.Phase]int64

// clone returns an independent copy so callers can never mutate the
// counter through a returned snapshot.
func (s State) clone() State {
	out := make(State, len(s))
	for p, n := range s {
		out[p] = n
	}
	return out
}

// Counter accumulates phase-entry counts. It is deliberately
// unsynchronized: delivery of phase entries is serialized by the caller
// (the tracker service layer), matching the serialized callback delivery
// of the external lifecycle owner.
type Counter struct {
	counts State
}

// New returns a Counter with all counts at zero.
func New() *Counter {
	return &Counter{counts: zeroState()}
}

func zeroState() State {
	s := make(State, len(phase.Order))
	for _, p := range phase.Order {
		s[p] = 0
	}
	return s
}

// Record increments the count for p by exactly one and returns the
// updated snapshot. It is total: p is a closed enumeration, so there is
// no failure case.
func (c *Counter) Record(p phase.Phase) State {
	c.counts[p]++
	return c.counts.clone()
}

// Snapshot returns the current counts without mutating them.
func (c *Counter) Snapshot() State {
	return c.counts.clone()
}

// Reset returns all counts to zero. Normal operation never calls this;
// it exists for test setup and the explicit reset surface.
func (c *Counter) Reset() State {
	c.counts = zeroState()
	return c.counts.clone()
}
