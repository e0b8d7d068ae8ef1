package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "budget-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, logger, res, err := cli.Bootstrap(context.Background(), log.ComponentWorker)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	}()

	// The worker only makes sense with a broker and a shared store; the API
	// server evaluates alerts in-process otherwise.
	if cfg.DataBackend != config.BackendSQLite {
		return fmt.Errorf("budget-worker needs the %s backend, got %s", config.BackendSQLite, cfg.DataBackend)
	}
	client, ok := res.Publisher.(*amqp.Client)
	if !ok {
		return errors.New("AMQP_URL must point to a reachable broker to run the budget worker")
	}

	analyticsSvc := analytics.NewService(res.Store,
		analytics.WithStoreTimeout(cfg.StoreTimeout),
		analytics.WithLogger(logger))
	alerts := worker.NewAlertWorker(analyticsSvc, logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		logger.Info("Shutting down worker", "alerts_sent", alerts.AlertsSent())
	})

	logger.Info("Starting budget-worker",
		"backend", cfg.DataBackend,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeTransactionEvents(ctx, alerts.HandleTransactionEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		return err
	}

	cli.WaitForShutdown(ctx, done)
	return nil
}
