package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/log"
	"spendwise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentWorker)

	logger.Info("Starting spendwise-worker",
		"interval", cfg.IngestInterval,
		"amqp", cfg.AMQPURL != "",
		"inbox_file", cfg.InboxFile,
		"sheets", cfg.SheetsEnabled())

	provider := cli.NewProvider(cfg)
	app, err := cli.NewApp(context.Background(), cfg, logger, provider)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	exporter, err := cli.NewExporter(context.Background(), cfg, "")
	if err != nil {
		logger.Error("Failed to initialize exporter", log.FieldError, err)
		os.Exit(1)
	}

	w := worker.NewIngestWorker(app.Ingestion, app.Reports, exporter, provider != nil, cfg.IngestInterval)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled, no AMQP_URL provided")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.Run(gctx, w.HandleRawMessage)
		})
	}
	g.Go(func() error {
		return w.Start(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
