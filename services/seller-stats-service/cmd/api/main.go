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
	"github.com/floroz/marketplace/services/seller-stats-service/internal/adapters/api"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/adapters/database"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/config"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Seller Stats API stopped", "error", err)
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

	// 1. Load JWT public key for token validation
	publicKeyPEM, err := os.ReadFile(cfg.AuthPublicKeyPath)
	if err != nil {
		return err
	}
	signer, err := auth.NewSignerFromPublicKey(publicKeyPEM, cfg.AuthIssuer)
	if err != nil {
		return err
	}
	logger.Info("JWT public key loaded", "path", cfg.AuthPublicKeyPath)

	// 2. Postgres
	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Postgres Connected")

	// 3. Dependencies
	txManager := pkgdb.NewPostgresTransactionManager(pool, cfg.LockTimeout)
	statsService := sellerstats.NewService(database.NewSellerStatsRepository(pool), txManager)

	path, handler := api.NewSellerStatsServiceHandler(
		api.NewSellerStatsHandler(statsService),
		connect.WithInterceptors(auth.NewAuthInterceptor(signer)),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting Seller Stats API", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
