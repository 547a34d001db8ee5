package export

import (
	"context"
	"sync"

	"spendwise/internal/aggregate"
)

// Memory keeps every written report. Used in tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	reports []aggregate.Report
	Err     error
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Write(ctx context.Context, report aggregate.Report) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

// Last returns the most recent report.
func (m *Memory) Last() (aggregate.Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reports) == 0 {
		return aggregate.Report{}, false
	}
	return m.reports[len(m.reports)-1], true
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}
