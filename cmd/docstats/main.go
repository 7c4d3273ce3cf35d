package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"docstats/internal/amqp"
	"docstats/internal/cli"
	applog "docstats/internal/log"
)

func usage() {
	fmt.Fprintf(os.Stderr, `USAGE:
    %[1]s [--store] [--publish] <filename>
    %[1]s --latest <filename>
    %[1]s --report-id <id>

Example:
    %[1]s in_1000000.json

Flags:
`, os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	store := pflag.Bool("store", false, "persist the report to REPORT_DB_PATH")
	publish := pflag.Bool("publish", false, "queue the file for docstats-worker instead of computing it here")
	latest := pflag.Bool("latest", false, "print the last report stored for the file instead of computing it")
	reportID := pflag.Int64("report-id", 0, "print the stored report with this ID")
	pflag.Usage = usage
	pflag.Parse()

	wantArgs := 1
	if *reportID != 0 {
		wantArgs = 0
	}
	if pflag.NArg() != wantArgs {
		usage()
		os.Exit(2)
	}
	source := pflag.Arg(0)

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.ShutdownContext()
	defer stop()

	if *latest || *reportID != 0 {
		if cfg.ReportDBPath == "" {
			logger.Error("--latest and --report-id require REPORT_DB_PATH")
			os.Exit(1)
		}
		repo := cli.InitStore(logger, cfg.ReportDBPath)
		defer repo.Close()

		sr, err := findStored(ctx, repo, source, *reportID)
		if err != nil {
			logger.Error("Failed to load stored report", applog.FieldError, err)
			os.Exit(1)
		}
		if err := writeStored(os.Stdout, sr); err != nil {
			logger.Error("Failed to write report", applog.FieldError, err)
			os.Exit(1)
		}
		return
	}

	if *publish {
		if cfg.AMQPURL == "" {
			logger.Error("--publish requires AMQP_URL")
			os.Exit(1)
		}
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPReadyQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		msg := amqp.NewReportRequestMessage(source, uuid.NewString())
		if err := client.PublishReportRequest(ctx, msg); err != nil {
			logger.Error("Failed to publish report request", applog.FieldError, err, applog.FieldSource, source)
			os.Exit(1)
		}
		fmt.Println(msg.RequestID)
		return
	}

	if *store && cfg.ReportDBPath == "" {
		logger.Error("--store requires REPORT_DB_PATH")
		os.Exit(1)
	}
	var dbPath string
	if *store {
		dbPath = cfg.ReportDBPath
	}
	repo := cli.InitStore(logger, dbPath)
	if repo != nil {
		defer repo.Close()
	}

	svc := cli.NewReportService(ctx, logger, cfg, repo)
	out, err := svc.Run(ctx, source)
	if err != nil {
		logger.Error("Failed to compute report", applog.FieldError, err, applog.FieldSource, source)
		os.Exit(1)
	}
	if out.ReportID != 0 {
		logger.Info("Report stored", applog.FieldReportID, out.ReportID)
	}

	if err := writeTasks(os.Stdout, out.Report); err != nil {
		logger.Error("Failed to write report", applog.FieldError, err)
		os.Exit(1)
	}
}
