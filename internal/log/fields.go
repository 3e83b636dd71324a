// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Lifecycle fields
	FieldPhase     = "phase"
	FieldPrevPhase = "prev_phase"
	FieldCount     = "count"

	// Persistence fields
	FieldBackend = "backend"
	FieldPath    = "path"

	// HTTP fields
	FieldMethod   = "method"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldRemote   = "remote_addr"
)
