// Package export writes the derived summary report to its destinations.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendwise/internal/aggregate"
)

// Writer delivers a report to one destination.
type Writer interface {
	Write(ctx context.Context, report aggregate.Report) error
	Name() string
}

// Multi fans a report out to several writers. Every writer is attempted and
// the failures are joined.
type Multi []Writer

func (m Multi) Name() string { return "multi" }

func (m Multi) Write(ctx context.Context, report aggregate.Report) error {
	var errs []error
	for _, w := range m {
		if err := w.Write(ctx, report); err != nil {
			slog.ErrorContext(ctx, "Report export failed", "writer", w.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
			continue
		}
		slog.InfoContext(ctx, "Report exported", "writer", w.Name(),
			"months", len(report.MonthlySummary),
			"weeks", len(report.WeeklySummary),
			"alerts", len(report.WeeklyAlerts))
	}
	return errors.Join(errs...)
}
