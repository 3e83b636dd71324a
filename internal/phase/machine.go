// SPDX-License-Identifier: MIT

package phase

// The external lifecycle owner walks a fixed machine:
//
//	Created -> Started -> Resumed -> Paused -> Stopped -> Started | destroyed
//
// lifecount never drives that machine; it only observes phase entries. The
// transition table below exists for observability: a strict-mode tracker
// can flag deliveries that no legal walk of the machine would produce.

var follows = map[Phase]map[Phase]bool{
	Created: {Started: true},
	Started: {Resumed: true},
	Resumed: {Paused: true},
	Paused:  {Stopped: true},
	// Stopped restarts the visible part of the cycle, or the component is
	// destroyed and a fresh one begins at Created.
	Stopped: {Started: true, Created: true},
}

// CanFollow reports whether entering next is consistent with the external
// machine after an entry of prev.
func CanFollow(prev, next Phase) bool {
	return follows[prev][next]
}

// First reports whether p is a legal first entry for a freshly created
// component.
func First(p Phase) bool {
	return p == Created
}
