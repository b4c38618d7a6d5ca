// Package constants holds the metadata keys shared by the HTTP gateway and the
// gRPC services.
package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

// Header and gRPC metadata names. gRPC metadata keys are lower case.
const (
	HeaderXRequestID      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"
)

const (
	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = HeaderXRequestID
	// ContextKeyIdempotencyKey is the context key for the idempotency key.
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)

// ContextKey returns the typed context key carrying the given metadata name.
func ContextKey(name string) any {
	return contextKey(name)
}
