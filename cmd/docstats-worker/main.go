package main

import (
	"context"
	"errors"
	"os"

	"docstats/internal/amqp"
	"docstats/internal/cli"
	applog "docstats/internal/log"
	"docstats/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting docstats-worker", applog.FieldOperation, applog.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.WorkerReady(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.ShutdownContext()
	defer stop()

	repo := cli.InitStore(logger, cfg.ReportDBPath)
	if repo != nil {
		defer repo.Close()
		logger.Info("Report store initialized", applog.FieldPath, cfg.ReportDBPath)
	} else {
		logger.Warn("REPORT_DB_PATH not set, reports will not be persisted")
	}

	svc := cli.NewReportService(ctx, logger, cfg, repo)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPReadyQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewReportWorker(svc, amqpClient, logger)

	logger.Info("Consuming report requests",
		applog.FieldExchange, cfg.AMQPExchange,
		applog.FieldQueue, cfg.AMQPQueue)

	err = amqpClient.ConsumeReportRequests(ctx, w.HandleReportRequest)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
