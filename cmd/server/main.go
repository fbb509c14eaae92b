package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/solvurder/backend/config"
	httpDelivery "github.com/solvurder/backend/internal/delivery/http"
	"github.com/solvurder/backend/internal/infrastructure/cache"
	"github.com/solvurder/backend/internal/infrastructure/provider"
	"github.com/solvurder/backend/internal/logger"
	"github.com/solvurder/backend/internal/observability"
	"github.com/solvurder/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting solvurder backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Bool("diagnostics", cfg.Diagnostics.Enabled))

	metrics := observability.NewMetrics()

	// Infrastructure: cache, provider registry, fetch client
	imageCache := cache.NewMemoryCache(cfg.Cache.MaxEntries)
	descriptors := provider.DefaultDescriptors()
	client := provider.NewClient(provider.ClientConfig{
		Timeout:       cfg.Satellite.FetchTimeout,
		RetryAttempts: cfg.Satellite.RetryAttempts,
		MinImageBytes: cfg.Satellite.MinImageBytes,
		RatePerSecond: cfg.Satellite.RatePerSecond,
		RateBurst:     cfg.Satellite.RateBurst,
	}, zlog, metrics)
	sources := provider.NewSources(client, descriptors)

	zlog.Info("imagery providers registered", zap.Int("count", len(descriptors)))

	// Usecase layer
	imageService := usecase.NewImageService(
		imageCache,
		sources,
		usecase.ImageServiceConfig{
			ImageTTL:       cfg.Cache.ImageTTL,
			PlaceholderTTL: cfg.Cache.PlaceholderTTL,
		},
		zlog,
		metrics,
	)

	// HTTP delivery
	handler := httpDelivery.NewHandler(imageService, descriptors, zlog)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http server shutdown error", zap.Error(err))
	}
}
