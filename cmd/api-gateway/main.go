package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-ledger/internal/pkg/telemetry"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/httpx"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/publisher"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/rpc"
)

// retailCacheNamespace must match the service name the retail service
// publishes its revenue summary under.
const retailCacheNamespace = "retail"

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "api-gateway"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	httpAddr := getEnv("HTTP_ADDR", ":8080")
	retailAddr := getEnv("RETAIL_SERVICE_ADDR", "localhost:9093")

	retailConn, err := createGRPCConn(retailAddr)
	if err != nil {
		slog.Error("could not connect", "addr", retailAddr, "error", err)
		os.Exit(1)
	}
	defer retailConn.Close()

	var opts []httpx.Option
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisCache := cache.NewRedisCache(redisAddr, retailCacheNamespace)
		defer redisCache.Close()
		opts = append(opts, httpx.WithRevenueCache(publisher.NewRevenuePublisher(redisCache)))
		slog.Info("revenue cache fallback enabled", "addr", redisAddr)
	}

	// The gateway has no audit database of its own.
	handler := httpx.NewHandler(rpc.NewClient(retailConn), nil, opts...)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("API gateway running", "addr", httpAddr, "retail_service", retailAddr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createGRPCConn(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
}
