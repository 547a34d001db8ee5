package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	"spendwise/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	logger.Info("Starting spendwise", "port", cfg.Port, "backend", cfg.DataBackend)

	app, err := cli.NewApp(context.Background(), cfg, logger, cli.NewProvider(cfg))
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: app.Transactions,
		Ingestion:    app.Ingestion,
		Reports:      app.Reports,
		Store:        app.Store,
		Logger:       logger.WithComponent(log.ComponentHTTP),
		Location:     app.Location,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
