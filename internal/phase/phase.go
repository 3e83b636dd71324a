// SPDX-License-Identifier: MIT

// Package phase defines the closed set of lifecycle phases an observed
// component can enter, plus the transition rules of the external machine
// that drives them.
package phase

import (
	"fmt"
	"strings"
)

// Phase is one named stage in an externally managed component lifecycle.
// The set is closed: code that holds a Phase never needs to handle an
// unknown value.
type Phase int

const (
	Created Phase = iota
	Started
	Resumed
	Paused
	Stopped
)

// Order is the canonical rendering and serialization order.
var Order = [5]Phase{Created, Started, Resumed, Paused, Stopped}

var labels = map[Phase]string{
	Created: "Created",
	Started: "Started",
	Resumed: "Resumed",
	Paused:  "Paused",
	Stopped: "Stopped",
}

func (p Phase) String() string {
	if s, ok := labels[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler so phases serialize as
// their stable labels in JSON maps and keys.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ErrUnknownPhase is returned by Parse for labels outside the closed set.
// It only ever arises at system boundaries (HTTP, persisted data); internal
// callers hold valid Phase values by construction.
var ErrUnknownPhase = fmt.Errorf("unknown lifecycle phase")

// Parse converts a textual label into a Phase. Matching is
// case-insensitive.
func Parse(label string) (Phase, error) {
	for p, l := range labels {
		if strings.EqualFold(label, l) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, label)
}

// All returns the phases in canonical order as a slice.
func All() []Phase {
	out := make([]Phase, len(Order))
	copy(out, Order[:])
	return out
}
