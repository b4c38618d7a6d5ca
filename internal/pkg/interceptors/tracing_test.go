package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptor_CopiesMetadataIntoContext(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestID, "req-1",
		constants.HeaderXIdempotencyKey, "idem-1",
	))

	var seen context.Context
	_, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/retail.v1.Retail/PlaceOrder"},
		func(ctx context.Context, _ any) (any, error) {
			seen = ctx
			return nil, nil
		})
	require.NoError(t, err)

	assert.Equal(t, "req-1", seen.Value(constants.ContextKeyRequestID))
	assert.Equal(t, "idem-1", GetMetadataValue(seen, constants.HeaderXIdempotencyKey))
}

func TestPropagateClientInterceptor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-2")
	ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, "")

	var outgoing metadata.MD
	err := PropagateClientInterceptor()(ctx, "/retail.v1.Retail/ListProducts", nil, nil, nil,
		func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
			outgoing, _ = metadata.FromOutgoingContext(ctx)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"req-2"}, outgoing.Get(constants.HeaderXRequestID))
	assert.Empty(t, outgoing.Get(constants.HeaderXIdempotencyKey))
}

func TestGetMetadataValue_Missing(t *testing.T) {
	assert.Empty(t, GetMetadataValue(context.Background(), constants.HeaderXRequestID))
}
