package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor copies the request ID and idempotency key from the
// incoming metadata into the context and logs every call with its outcome.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := firstIncoming(ctx, constants.HeaderXRequestID)
		idempotencyKey := firstIncoming(ctx, constants.HeaderXIdempotencyKey)

		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		start := time.Now()
		resp, err := handler(ctx, req)

		attrs := []any{
			"method", info.FullMethod,
			"request_id", requestID,
			"duration", time.Since(start),
			"code", status.Code(err).String(),
		}
		if idempotencyKey != "" {
			attrs = append(attrs, "idempotency_key", idempotencyKey)
		}
		slog.InfoContext(ctx, "grpc call", attrs...)

		return resp, err
	}
}

// PropagateClientInterceptor forwards the request ID and idempotency key held
// in the context to the outgoing metadata of every call.
func PropagateClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		for _, key := range []string{constants.HeaderXRequestID, constants.HeaderXIdempotencyKey} {
			if v, ok := ctx.Value(constants.ContextKey(key)).(string); ok && v != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, key, v)
			}
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// GetMetadataValue looks the key up in the context first, then in the
// incoming and outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(constants.ContextKey(key)).(string); ok && v != "" {
		return v
	}
	if v := firstIncoming(ctx, key); v != "" {
		return v
	}
	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func firstIncoming(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
