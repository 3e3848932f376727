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

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/floroz/marketplace/pkg/auth"
	pkgdb "github.com/floroz/marketplace/pkg/database"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/api"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/cache"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/database"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/metrics"
	"github.com/floroz/marketplace/services/market-service/internal/config"
	"github.com/floroz/marketplace/services/market-service/internal/domain/bids"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
	"github.com/floroz/marketplace/services/market-service/internal/domain/purchases"
	"github.com/floroz/marketplace/services/market-service/internal/domain/trade"
	"github.com/floroz/marketplace/services/market-service/migrations"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Market Service API stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Postgres
	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Postgres Connected")

	if cfg.RunMigrations {
		if err := pkgdb.Migrate(ctx, pool, migrations.FS); err != nil {
			return err
		}
		logger.Info("Migrations applied")
	}

	// 2. Redis is optional; without it reads go straight to Postgres.
	var itemCache items.Cache = items.NoopCache{}
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, item cache disabled", "error", err)
		} else {
			defer rdb.Close()
			itemCache = cache.NewRedisItemCache(rdb, cache.DefaultTTL)
			logger.Info("Redis Connected")
		}
	}

	// 3. Token validation
	publicKey, err := os.ReadFile(cfg.AuthPublicKeyPath)
	if err != nil {
		return err
	}
	signer, err := auth.NewSignerFromPublicKey(publicKey, cfg.AuthIssuer)
	if err != nil {
		return err
	}

	// 4. Repositories and domain services
	txManager := pkgdb.NewPostgresTransactionManager(pool, cfg.LockTimeout)
	itemRepo := database.NewPostgresItemRepository(pool)
	bidRepo := database.NewPostgresBidRepository(pool)
	purchaseRepo := database.NewPostgresPurchaseRepository(pool)
	outboxRepo := database.NewPostgresOutboxRepository(pool)

	coordinator := trade.NewCoordinator(txManager, itemRepo, bidRepo, purchaseRepo, outboxRepo,
		trade.WithCache(itemCache),
		trade.WithRecorder(metrics.NewTradeRecorder()),
		trade.WithLogger(logger),
	)

	handler := api.NewMarketHandler(
		coordinator,
		items.NewService(txManager, itemRepo, itemCache, logger),
		bids.NewService(bidRepo),
		purchases.NewService(purchaseRepo),
	)

	// 5. HTTP surface
	path, marketHandler := api.NewMarketServiceHandler(handler,
		connect.WithInterceptors(
			metrics.NewInterceptor(),
			auth.NewAuthInterceptor(signer, api.PublicProcedures()...),
		),
	)

	mux := http.NewServeMux()
	mux.Handle(path, marketHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Use h2c for HTTP/2 without TLS (internal services / local dev)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting Market Service API", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		metrics.CollectPoolStats(gctx, pool, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down Market Service API...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
