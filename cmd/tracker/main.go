package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"tracker/internal/cli"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		applog.New(applog.DefaultConfig()).Warn("Failed to load .env file", applog.FieldError, err)
	}

	cfg := cli.LoadAndValidateConfig(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(cfg, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	store := cli.OpenStore(ctx, logger, cfg)
	svc := services.NewExpenseService(store, logger)

	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tracker server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if err := svc.Close(); err != nil {
			logger.Error("Store close error", applog.FieldError, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
