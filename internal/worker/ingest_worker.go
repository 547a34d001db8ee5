package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"spendwise/internal/aggregate"
	"spendwise/internal/core"
	"spendwise/internal/export"
	"spendwise/internal/services"
)

const amqpSource = "amqp"

type Ingester interface {
	Run(ctx context.Context) (services.RunResult, error)
	Ingest(ctx context.Context, source string, raws []core.RawMessage) (services.RunResult, error)
}

type Reporter interface {
	Report(ctx context.Context, ref time.Time) (aggregate.Report, error)
}

// IngestWorker stores messages arriving over AMQP, periodically polls the
// inbox provider and re-exports the report whenever new rows were stored.
type IngestWorker struct {
	ingestion Ingester
	reports   Reporter
	exporter  export.Writer
	poll      bool
	interval  time.Duration

	dirty atomic.Bool
}

// NewIngestWorker creates a worker. poll enables provider runs on each tick;
// a nil exporter disables exporting.
func NewIngestWorker(ingestion Ingester, reports Reporter, exporter export.Writer, poll bool, interval time.Duration) *IngestWorker {
	return &IngestWorker{
		ingestion: ingestion,
		reports:   reports,
		exporter:  exporter,
		poll:      poll,
		interval:  interval,
	}
}

// HandleRawMessage stores one delivered message. Errors are returned so the
// delivery is requeued; messages that are not transactions are accepted.
func (w *IngestWorker) HandleRawMessage(ctx context.Context, msg core.RawMessage) error {
	res, err := w.ingestion.Ingest(ctx, amqpSource, []core.RawMessage{msg})
	if err != nil {
		return fmt.Errorf("ingest message %s: %w", msg.ExternalID, err)
	}
	if res.Inserted > 0 {
		w.dirty.Store(true)
	}
	slog.DebugContext(ctx, "Message handled",
		"external_id", msg.ExternalID,
		"inserted", res.Inserted,
		"unparsed", res.Unparsed)
	return nil
}

// Tick polls the provider when enabled and exports if anything changed since
// the last export.
func (w *IngestWorker) Tick(ctx context.Context) error {
	var errs []error

	if w.poll {
		res, err := w.ingestion.Run(ctx)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("ingestion run: %w", err))
		case res.Skipped:
			slog.InfoContext(ctx, "Ingestion run skipped, another run in flight")
		case res.Inserted > 0:
			w.dirty.Store(true)
		}
	}

	if w.dirty.Load() {
		if err := w.Export(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Export builds the current report and hands it to the exporter.
func (w *IngestWorker) Export(ctx context.Context) error {
	if w.exporter == nil || w.reports == nil {
		w.dirty.Store(false)
		return nil
	}

	// cleared before building so changes that land meanwhile trigger another export
	w.dirty.Store(false)
	report, err := w.reports.Report(ctx, time.Time{})
	if err != nil {
		w.dirty.Store(true)
		return fmt.Errorf("build report: %w", err)
	}
	if err := w.exporter.Write(ctx, report); err != nil {
		w.dirty.Store(true)
		return fmt.Errorf("export report: %w", err)
	}
	return nil
}

// Start runs a tick immediately and then on every interval until ctx is done.
// Tick failures are logged and do not stop the loop.
func (w *IngestWorker) Start(ctx context.Context) error {
	// exports the stored state once at startup
	w.dirty.Store(true)
	w.tick(ctx)

	if w.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *IngestWorker) tick(ctx context.Context) {
	if err := w.Tick(ctx); err != nil && ctx.Err() == nil {
		if core.IsProviderError(err) {
			slog.WarnContext(ctx, "Periodic ingestion could not read the inbox", "error", err)
			return
		}
		slog.ErrorContext(ctx, "Periodic tick failed", "error", err)
	}
}
