package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/backend"
	"spendwise/internal/categorize"
	"spendwise/internal/core"
	"spendwise/internal/inbox"
	"spendwise/internal/log"
	"spendwise/internal/sms"
)

// RunResult reports one ingestion run.
type RunResult struct {
	RunID          string        `json:"run_id"`
	Source         string        `json:"source"`
	Skipped        bool          `json:"skipped"` // another run was in flight
	Received       int           `json:"received"`
	NonTransaction int           `json:"non_transaction"`
	Unparsed       int           `json:"unparsed"`
	Extracted      int           `json:"extracted"`
	Inserted       int           `json:"inserted"`
	Duration       time.Duration `json:"duration_ns"`
}

// IngestionService turns raw messages into stored, categorized transactions.
// At most one run is in flight at a time.
type IngestionService struct {
	store       backend.TransactionStore
	provider    inbox.Provider
	extractor   *sms.Extractor
	categorizer *categorize.Categorizer
	maxCount    int
	logger      *log.StructuredLogger

	mu       sync.Mutex
	onChange []func()
}

func NewIngestionService(
	store backend.TransactionStore,
	provider inbox.Provider,
	extractor *sms.Extractor,
	categorizer *categorize.Categorizer,
	maxCount int,
) *IngestionService {
	if extractor == nil {
		extractor = sms.NewExtractor(nil)
	}
	if categorizer == nil {
		categorizer = categorize.Default()
	}
	return &IngestionService{
		store:       store,
		provider:    provider,
		extractor:   extractor,
		categorizer: categorizer,
		maxCount:    maxCount,
		logger:      log.NewStructuredLogger(log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentIngest})),
	}
}

// OnChange registers fn to be called after stored data changes.
func (s *IngestionService) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// Run pulls from the configured provider. If another run holds the guard it
// returns immediately with Skipped set.
func (s *IngestionService) Run(ctx context.Context) (RunResult, error) {
	if !s.mu.TryLock() {
		slog.InfoContext(ctx, "Ingestion already in flight, skipping run")
		return RunResult{Skipped: true}, nil
	}
	defer s.mu.Unlock()

	if s.provider == nil {
		return RunResult{}, &core.ProviderError{Op: "list inbox", Err: fmt.Errorf("%w: no provider configured", core.ErrProviderUnavailable)}
	}

	start := time.Now()
	raws, err := s.provider.ListInbox(ctx, inbox.ListOptions{MaxCount: s.maxCount})
	if err != nil {
		s.logger.LogError(ctx, "Failed to list inbox", err, log.ComponentInbox, log.OpIngest, log.NewFields())
		return RunResult{Source: s.provider.Name()}, err
	}
	return s.ingestLocked(ctx, s.provider.Name(), raws, start)
}

// Ingest stores already fetched messages, waiting for any run in flight.
func (s *IngestionService) Ingest(ctx context.Context, source string, raws []core.RawMessage) (RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestLocked(ctx, source, raws, time.Now())
}

func (s *IngestionService) ingestLocked(ctx context.Context, source string, raws []core.RawMessage, start time.Time) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString(), Source: source}

	processed := sms.Process(raws, s.extractor, s.categorizer)
	res.Received = processed.Received
	res.NonTransaction = processed.Skipped
	res.Unparsed = processed.Unparsed
	res.Extracted = len(processed.Transactions)

	inserted, err := s.store.InsertIfAbsent(ctx, processed.Transactions)
	if err != nil {
		res.Duration = time.Since(start)
		return res, fmt.Errorf("store batch: %w", err)
	}
	res.Inserted = inserted
	res.Duration = time.Since(start)

	s.logger.LogIngestRun(ctx, res.RunID, source, res.Received, res.NonTransaction, res.Unparsed, res.Extracted, res.Inserted)

	if inserted > 0 {
		s.notify()
	}
	return res, nil
}

// CategorizePending labels every stored row whose category is null and
// returns how many were labelled. Rows already labelled, including Other,
// are left alone.
func (s *IngestionService) CategorizePending(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	n := 0
	for _, tx := range categorize.SelectForCategorization(txs) {
		category := s.categorizer.Categorize(tx.Body, tx.Description)
		if err := s.store.UpdateCategory(ctx, tx.ID, category); err != nil {
			if n > 0 {
				s.notify()
			}
			return n, fmt.Errorf("categorize transaction %d: %w", tx.ID, err)
		}
		n++
	}

	slog.InfoContext(ctx, "Categorized pending transactions", log.FieldCategorized, n)
	if n > 0 {
		s.notify()
	}
	return n, nil
}

func (s *IngestionService) notify() {
	for _, fn := range s.onChange {
		fn()
	}
}
