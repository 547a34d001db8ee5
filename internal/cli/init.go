// Package cli holds the bootstrap shared by the spendwise commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/backend"
	"spendwise/internal/categorize"
	"spendwise/internal/config"
	"spendwise/internal/export"
	"spendwise/internal/export/google"
	"spendwise/internal/inbox"
	"spendwise/internal/log"
	"spendwise/internal/services"
	"spendwise/internal/sms"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configured level and format
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info level", log.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and exits the process when it is
// invalid.
func LoadAndValidateConfig() (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg, log.ComponentApp)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// App bundles the store and the services built on it.
type App struct {
	Store        backend.TransactionStore
	Ingestion    *services.IngestionService
	Reports      *services.ReportService
	Transactions *services.TransactionService
	Location     *time.Location

	cleanup backend.CleanupFunc
}

// Close releases the store.
func (a *App) Close() error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

// NewApp opens the configured store and wires the services. provider may be
// nil when messages only arrive pushed.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger, provider inbox.Provider) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	categorizer := categorize.Default()
	if cfg.RulesFile != "" {
		categorizer, err = categorize.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load categorization rules: %w", err)
		}
		logger.Info("Loaded categorization rules", "path", cfg.RulesFile, "categories", len(categorizer.Categories()))
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	settings := services.ReportSettings{
		Months:         cfg.ReportMonths,
		RollingWeeks:   cfg.ReportRollingWeeks,
		CategoryMonths: cfg.ReportCategoryMonths,
		Location:       loc,
	}

	return &App{
		Store:        result.Store,
		Ingestion:    services.NewIngestionService(result.Store, provider, sms.NewExtractor(loc), categorizer, cfg.InboxMaxCount),
		Reports:      services.NewReportService(result.Store, settings),
		Transactions: services.NewTransactionService(result.Store),
		Location:     loc,
		cleanup:      result.Cleanup,
	}, nil
}

// NewProvider returns the file inbox provider, or nil when no inbox file is
// configured.
func NewProvider(cfg *config.Config) inbox.Provider {
	if cfg.InboxFile == "" {
		return nil
	}
	return inbox.NewFile(cfg.InboxFile)
}

// NewExporter returns the JSON file writer, fanned out to Google Sheets when a
// spreadsheet is configured.
func NewExporter(ctx context.Context, cfg *config.Config, output string) (export.Writer, error) {
	if output == "" {
		output = cfg.ReportOutput
	}
	writers := export.Multi{export.NewJSONFile(output)}

	if cfg.SheetsEnabled() {
		sheets, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("google sheets exporter: %w", err)
		}
		writers = append(writers, sheets)
	}
	return writers, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs before cancellation; done is closed once shutdown has finished or
// timeout elapsed.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and shutdown is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
