package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/retail-ledger/internal/auditlog"
	auditsqlite "github.com/jcmexdev/retail-ledger/internal/auditlog/sqlite"
	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-ledger/internal/pkg/telemetry"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/httpx"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/idempotency"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/publisher"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/rpc"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/seed"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
)

const serviceName = "retail"

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("retail service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "retail-service"))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	c, closeCache, err := newCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	observers := []app.Observer{publisher.NewRevenuePublisher(c)}

	// nil-safe: the HTTP audit endpoint is disabled without a database.
	var auditReader auditlog.Reader
	if path := getEnv("AUDIT_DB_PATH", ""); path != "" {
		repo, err := auditsqlite.Open(path)
		if err != nil {
			return err
		}
		defer repo.Close()
		observers = append(observers, auditlog.NewRecorder(repo))
		auditReader = repo
		slog.Info("audit log enabled", "path", path)
	}

	engine := app.NewEngine(app.WithObservers(observers...))

	if path := getEnv("SEED_FILE", ""); path != "" {
		fixture, err := seed.LoadFile(path)
		if err != nil {
			return err
		}
		res, err := fixture.Apply(ctx, engine)
		if err != nil {
			return err
		}
		slog.Info("seed fixture applied", "path", path,
			"products", res.Products, "customers", res.Customers, "orders", res.Orders)
	}

	addr := ":" + getEnv("PORT", "9093")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	rpc.RegisterRetailServer(grpcServer, rpc.NewServer(engine, c))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("retail service gRPC running", "addr", addr)
		return grpcServer.Serve(lis)
	})

	var httpServer *http.Server
	if httpAddr := getEnv("HTTP_ADDR", ""); httpAddr != "" {
		httpServer = &http.Server{
			Addr:              httpAddr,
			Handler:           httpx.NewRouter(httpx.NewHandler(idempotency.Wrap(engine, c), auditReader)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			slog.Info("retail service HTTP running", "addr", httpAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		healthSrv.Shutdown()
		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("http shutdown error", "error", err)
			}
		}
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

// newCache connects to Redis when REDIS_ADDR is set. Without it, idempotency
// keys and the revenue summary live in process memory.
func newCache(ctx context.Context) (cache.Cache, func(), error) {
	redisAddr := getEnv("REDIS_ADDR", "")
	if redisAddr == "" {
		slog.Info("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemoryCache(serviceName), func() {}, nil
	}

	redisCache := cache.NewRedisCache(redisAddr, serviceName)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		_ = redisCache.Close()
		return nil, nil, err
	}

	slog.Info("redis cache connected", "addr", redisAddr)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
