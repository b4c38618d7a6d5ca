package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars), empty when the
	// context carries no active span.
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry with a fresh event ID and the trace info of ctx.
//
//	entry, err := auditlog.NewEntry(ctx, "order.placed", "order", "ORD-001", order)
//	_ = repo.Save(ctx, entry)
func NewEntry(ctx context.Context, operation, kind, entityID string, detail any) (*Entry, error) {
	payload := "{}"
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return nil, fmt.Errorf("auditlog: marshal detail for %s %s: %w", kind, entityID, err)
		}
		payload = string(b)
	}

	ti := ExtractTraceInfo(ctx)
	return &Entry{
		EventID:    uuid.NewString(),
		Operation:  operation,
		EntityKind: kind,
		EntityID:   entityID,
		Detail:     payload,
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		RecordedAt: time.Now().UTC(),
	}, nil
}
