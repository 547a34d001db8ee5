// Package inbox supplies raw text messages to the ingestion pipeline.
package inbox

import (
	"context"
	"slices"

	"spendwise/internal/core"
)

// DefaultMaxCount caps a listing when ListOptions.MaxCount is unset.
const DefaultMaxCount = 500

type ListOptions struct {
	MaxCount int
}

func (o ListOptions) limit() int {
	if o.MaxCount <= 0 {
		return DefaultMaxCount
	}
	return o.MaxCount
}

// Provider lists messages from a source inbox, newest first. Failures are
// returned as *core.ProviderError.
type Provider interface {
	ListInbox(ctx context.Context, opts ListOptions) ([]core.RawMessage, error)
	Name() string
}

// Static serves a fixed set of messages.
type Static struct {
	Messages []core.RawMessage
	Err      error
}

func (s *Static) Name() string { return "static" }

func (s *Static) ListInbox(ctx context.Context, opts ListOptions) ([]core.RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError("list inbox", err)
	}
	return newestFirst(s.Messages, opts.limit()), nil
}

// newestFirst orders by timestamp descending, unreadable timestamps last, and
// truncates to limit.
func newestFirst(msgs []core.RawMessage, limit int) []core.RawMessage {
	out := slices.Clone(msgs)
	slices.SortStableFunc(out, func(a, b core.RawMessage) int {
		ta, oka := millisValue(a.TimestampMillis)
		tb, okb := millisValue(b.TimestampMillis)
		switch {
		case oka && !okb:
			return -1
		case !oka && okb:
			return 1
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		}
		return 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func millisValue(m core.Millis) (int64, bool) {
	t, ok := m.Time()
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}
