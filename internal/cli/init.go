// Package cli provides common CLI initialization utilities shared by
// cmd/docstats and cmd/docstats-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"docstats/internal/cache"
	"docstats/internal/config"
	applog "docstats/internal/log"
	"docstats/internal/services"
	gsheet "docstats/internal/sheets/google"
	"docstats/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from LOG_LEVEL and LOG_FORMAT
// and installs it as the slog default.
func SetupLogger() *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if os.Getenv("LOG_FORMAT") == "json" {
		cfg.Format = "json"
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the report store, or returns nil when dbPath is empty.
// Exits the process on failure.
func InitStore(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	if dbPath == "" {
		return nil
	}
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, applog.FieldPath, dbPath)
		os.Exit(1)
	}
	return repo
}

// NewReportService wires the report service from configuration. store may be nil.
func NewReportService(ctx context.Context, logger *applog.Logger, cfg *config.Config, store *storage.SQLiteRepository) *services.ReportService {
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithStreaming(cfg.StreamInput),
		services.WithCache(cache.NewLRUCache[services.Result](cfg.ReportCacheSize, cfg.ReportCacheTTL)),
	}
	if store != nil {
		opts = append(opts, services.WithStore(store))
	}
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		opts = append(opts, services.WithExporter(client))
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}
	return services.NewReportService(opts...)
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
