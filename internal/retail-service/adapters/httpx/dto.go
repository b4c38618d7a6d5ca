package httpx

import "encoding/json"

type AdjustStockRequest struct {
	Quantity  int    `json:"quantity"`
	Direction string `json:"direction"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type AuditEntryResponse struct {
	EventID    string          `json:"eventId"`
	Operation  string          `json:"operation"`
	EntityKind string          `json:"entityKind"`
	EntityID   string          `json:"entityId"`
	Detail     json.RawMessage `json:"detail"`
	TraceID    string          `json:"traceId,omitempty"`
	RecordedAt string          `json:"recordedAt"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	// Set only for insufficient_stock.
	Requested *int `json:"requested,omitempty"`
	Available *int `json:"available,omitempty"`
}
