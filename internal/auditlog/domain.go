// Package auditlog defines the append-only trail of applied retail commands.
//
// Every successful mutation of the engine produces one immutable entry. The
// trail is for inspection only: engine state is never rebuilt from it. Each
// entry carries the trace and span IDs that were active when the command ran,
// so a row can be joined with the distributed trace.
package auditlog

import "time"

// Entry is a single row in the audit_log table.
type Entry struct {
	// EventID uniquely identifies the entry (UUID v4).
	EventID string

	// Operation names the applied command, e.g. "order.placed".
	Operation string

	// EntityKind is "product", "customer" or "order".
	EntityKind string

	// EntityID is the engine identifier of the affected entity.
	EntityID string

	// Detail is the JSON-serialised entity after the change, or as it was
	// before a delete.
	Detail string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}
