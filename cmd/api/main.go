package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coupon-insights/internal/bootstrap"
	"coupon-insights/internal/config"
	"coupon-insights/internal/coupon"
	"coupon-insights/internal/handler"
	"coupon-insights/internal/metrics"
	"coupon-insights/internal/middleware"
	"coupon-insights/internal/router"
	"coupon-insights/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("source", cfg.Source.Kind).Msg("starting coupon-insights API server")

	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API_KEY is not set, protected routes will answer 500")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, closeSource, err := bootstrap.NewSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise coupon source: %w", err)
	}
	defer closeSource()

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	counter := coupon.NewCounter(source, logger)
	reportService := service.NewReportService(counter, m, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	var limiter *middleware.LimiterStore
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewLimiterStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		limiter.StartJanitor(ctx)
	}

	mux := router.New(reportHandler, metrics.Handler(reg), cfg.Auth.APIKey, limiter, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
