package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/log"
)

func main() {
	cli.LoadEnvFile()

	date := flag.String("date", "", "reference date YYYY-MM-DD (default: today)")
	output := flag.String("output", "", "report file path (default: REPORT_OUTPUT)")
	ingest := flag.Bool("ingest", false, "pull the inbox file before building the report")
	stdout := flag.Bool("stdout", false, "print the report instead of exporting it")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentReport)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger, *date, *output, *ingest, *stdout); err != nil {
		logger.Error("Report failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, date, output string, ingest, stdout bool) error {
	app, err := cli.NewApp(ctx, cfg, logger, cli.NewProvider(cfg))
	if err != nil {
		return err
	}
	defer app.Close()

	var ref time.Time
	if date != "" {
		ref, err = time.ParseInLocation("2006-01-02", date, app.Location)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", date, err)
		}
	}

	if ingest {
		res, err := app.Ingestion.Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
		logger.Info("Ingestion finished", log.FieldInserted, res.Inserted, log.FieldReceived, res.Received)
	}

	report, err := app.Reports.Report(ctx, ref)
	if err != nil {
		return err
	}

	if stdout {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	writer, err := cli.NewExporter(ctx, cfg, output)
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, report); err != nil {
		return err
	}

	fmt.Printf("Report written: %d months, %d weeks, %d alerts\n",
		len(report.MonthlySummary), len(report.WeeklySummary), len(report.WeeklyAlerts))
	return nil
}
