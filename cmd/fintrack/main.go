package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"fintrack/internal/analytics"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fintrack:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, logger, res, err := cli.Bootstrap(context.Background(), log.ComponentApp)
	if err != nil {
		return err
	}

	analyticsSvc := analytics.NewService(res.Store,
		analytics.WithStoreTimeout(cfg.StoreTimeout),
		analytics.WithLogger(logger))

	// Without a broker, alerts are evaluated in-process.
	publisher := res.Publisher
	var dispatcher *services.EventDispatcher
	if publisher == nil {
		alerts := worker.NewAlertWorker(analyticsSvc, logger)
		dispatcher = services.NewEventDispatcher(alerts.HandleTransactionEvent, services.DefaultDispatcherConfig())
		publisher = dispatcher
	}
	ledger := services.NewLedgerService(res.Store, publisher)
	auth := services.NewAuthService(res.Store, cfg.BcryptCost)

	srv := apphttp.NewServer(":"+cfg.Port, analyticsSvc, auth, ledger, res.Store, apphttp.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if dispatcher != nil {
			if err := dispatcher.Stop(shutdownCtx); err != nil {
				logger.Error("Event dispatcher shutdown error", log.FieldError, err)
			}
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Publisher close error", log.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	if dispatcher != nil {
		if err := dispatcher.Start(ctx); err != nil {
			return err
		}
	}

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp_enabled", res.Publisher != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return err
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
