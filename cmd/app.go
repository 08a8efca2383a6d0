package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/softline/vitrine/internal/caching"
	"github.com/softline/vitrine/internal/config"
	"github.com/softline/vitrine/internal/handlers"
	"github.com/softline/vitrine/internal/jobs"
	"github.com/softline/vitrine/internal/jobs/background"
	"github.com/softline/vitrine/internal/metrics"
	"github.com/softline/vitrine/internal/middleware"
	"github.com/softline/vitrine/internal/repositories"
	"github.com/softline/vitrine/internal/server"
	"github.com/softline/vitrine/internal/services"
	"github.com/softline/vitrine/internal/storage"
	"github.com/softline/vitrine/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		store, err := storage.NewS3Store(ctx, cfg.StorageEndpoint, cfg.StorageRegion, cfg.StorageAccessKey,
			cfg.StorageSecretKey, cfg.StorageBucket, cfg.StoragePublicBase, cfg.StorageUseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := storage.NewMinioStore(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
			cfg.StorageBucket, cfg.StoragePublicBase, cfg.StorageUseSSL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucketExists(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("object storage init failed: %w", err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	m := metrics.Default()

	// Create repositories
	productRepo := repositories.NewProductRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)

	// Create services
	imageSvc := services.NewImageService(productRepo, store, cacheSvc, m, cfg.StoragePrefix)
	pixSvc := services.NewPixService(cfg.PixAPIURL, cfg.PixAPIToken, cfg.PixTimeout)
	checkoutSvc := services.NewCheckoutService(productRepo, saleRepo, pixSvc, m, services.CheckoutConfig{
		FreeShippingMin: cfg.FreeShippingMin,
		ShippingFee:     cfg.ShippingFee,
		PixExpiration:   cfg.PixExpiration,
	})

	jwtConfig, stopJWKS, err := middleware.JWTConfig(cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		return err
	}
	defer stopJWKS()

	reconciler := jobs.NewImageReconciler(productRepo, store, m, cfg.StoragePrefix, cfg.ReconcileDeleteOrphans)
	scheduler, err := background.NewJobScheduler(reconciler, cfg.ReconcileInterval)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			zap.L().Warn("scheduler shutdown failed", zap.Error(err))
		}
	}()

	e := server.NewRouter(server.Deps{
		Images:        handlers.NewImageHandlers(imageSvc),
		Checkout:      handlers.NewCheckoutHandlers(checkoutSvc),
		Health:        handlers.NewHealthHandlers(pool, cacheSvc, store, version),
		JWT:           jwtConfig,
		MaxUploadSize: cfg.MaxUploadSize,
		Gatherer:      prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("vitrine server starting", "version", version, "port", cfg.Port, "env", cfg.AppEnv, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	zap.S().Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	zap.S().Info("server stopped")
	return nil
}

func runReconcile(ctx context.Context, cfg *config.Config, out io.Writer) error {
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("object storage init failed: %w", err)
	}

	report, err := reconcileOnce(ctx, pool, store, cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func reconcileOnce(ctx context.Context, pool *pgxpool.Pool, store storage.ObjectStore, cfg *config.Config) (*jobs.ReconcileReport, error) {
	reconciler := jobs.NewImageReconciler(repositories.NewProductRepo(pool), store, nil, cfg.StoragePrefix, cfg.ReconcileDeleteOrphans)
	return reconciler.Run(ctx)
}
