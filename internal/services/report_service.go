package services

import (
	"context"
	"fmt"
	"time"

	"spendwise/internal/aggregate"
	"spendwise/internal/backend"
	"spendwise/internal/core"
)

// ReportSettings are the default windows used when a caller passes zero.
type ReportSettings struct {
	Months         int // monthly table length, 0 keeps all
	RollingWeeks   int
	CategoryMonths int

	// Location is the zone transaction dates are recorded in. Reference
	// times are converted to it before windows are computed.
	Location *time.Location
}

func DefaultReportSettings() ReportSettings {
	return ReportSettings{Months: 6, RollingWeeks: aggregate.DefaultRollingWeeks, CategoryMonths: 1}
}

// ReportService derives summaries from a snapshot of the store.
type ReportService struct {
	store    backend.TransactionStore
	settings ReportSettings

	// Clock supplies the reference time when a caller passes the zero time.
	Clock func() time.Time
}

func NewReportService(store backend.TransactionStore, settings ReportSettings) *ReportService {
	return &ReportService{store: store, settings: settings, Clock: time.Now}
}

func (s *ReportService) Settings() ReportSettings { return s.settings }

// Ref resolves the reference time, reading the clock once.
func (s *ReportService) Ref(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = s.Clock()
	}
	if s.settings.Location != nil {
		ref = ref.In(s.settings.Location)
	}
	return ref
}

func (s *ReportService) snapshot(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// Summary returns the week or month containing ref.
func (s *ReportService) Summary(ctx context.Context, kind core.PeriodKind, ref time.Time) (core.SummaryPeriod, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return core.SummaryPeriod{}, err
	}
	ref = s.Ref(ref)
	switch kind {
	case core.PeriodWeek:
		return aggregate.WeeklySummary(txs, ref), nil
	case core.PeriodMonth:
		return aggregate.MonthlySummary(txs, ref), nil
	}
	return core.SummaryPeriod{}, fmt.Errorf("unknown period %q", kind)
}

func (s *ReportService) RollingBudget(ctx context.Context, weeks int, ref time.Time) (aggregate.Rolling, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.Rolling{}, err
	}
	if weeks <= 0 {
		weeks = s.settings.RollingWeeks
	}
	return aggregate.RollingBudget(txs, s.Ref(ref), weeks), nil
}

func (s *ReportService) MonthBudget(ctx context.Context, ref time.Time) (aggregate.MonthBudget, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.MonthBudget{}, err
	}
	return aggregate.CurrentMonthBudget(txs, s.Ref(ref)), nil
}

func (s *ReportService) Categories(ctx context.Context, months int, ref time.Time) ([]core.CategoryTotal, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.settings.CategoryMonths
	}
	return aggregate.CategoryBreakdown(txs, s.Ref(ref), months), nil
}

func (s *ReportService) Months(ctx context.Context, limit int) ([]core.MonthRow, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = s.settings.Months
	}
	return aggregate.MonthlyTable(txs, limit), nil
}

// Report builds the export document for ref.
func (s *ReportService) Report(ctx context.Context, ref time.Time) (aggregate.Report, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.Report{}, err
	}
	return aggregate.BuildReport(txs, s.Ref(ref), s.settings.Months), nil
}
