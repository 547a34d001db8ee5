package sms

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spendwise/internal/core"
)

var (
	ErrNotTransaction   = errors.New("not a transaction message")
	ErrNoAmount         = errors.New("no amount found")
	ErrUnknownDirection = errors.New("unknown direction")
)

var (
	amountPattern = regexp.MustCompile(`(?i)\bRs\.?\s?(\d[\d,]*(?:\.\d+)?)`)

	// namespace for source ids derived from message content
	sourceNamespace = uuid.MustParse("6f1c2b9e-3d4a-5e6f-8a7b-9c0d1e2f3a4b")
)

// matcher extracts a description candidate from a message body.
type matcher struct {
	name string
	re   *regexp.Regexp
	// format renders the first capture group.
	format func(string) string
}

// Extractor pulls structured fields out of a classified message.
type Extractor struct {
	loc      *time.Location
	matchers []matcher
}

// NewExtractor returns an extractor converting timestamps to calendar dates
// in loc. A nil loc means time.Local.
func NewExtractor(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.Local
	}
	phrase := func(s string) string {
		// Casers are stateful and must not be shared.
		return cases.Title(language.Und).String(trimCapture(s))
	}
	return &Extractor{
		loc: loc,
		matchers: []matcher{
			{name: "to", re: regexp.MustCompile(`(?i:\bto)\s+([A-Z][A-Za-z\s.,'-]+)`), format: phrase},
			{name: "from", re: regexp.MustCompile(`(?i:\bfrom)\s+([A-Z][A-Za-z\s.,'-]+)`), format: phrase},
			{name: "vpa", re: regexp.MustCompile(`(?i)\bVPA\s+([\w.-]+@[\w.-]+)`), format: trimCapture},
			{name: "upi_ref", re: regexp.MustCompile(`(?i)\bUPI Ref No[:\s]+(\d+)`), format: func(s string) string {
				return "UPI Ref " + s
			}},
		},
	}
}

// Extract builds a transaction from a raw message. The category is left
// empty. Messages without an amount or a direction are rejected.
func (e *Extractor) Extract(raw core.RawMessage) (core.Transaction, error) {
	if !IsTransactionMessage(raw.Body) {
		return core.Transaction{}, ErrNotTransaction
	}
	amount, ok := ExtractAmount(raw.Body)
	if !ok {
		return core.Transaction{}, ErrNoAmount
	}
	dir := ExtractDirection(raw.Body)
	if dir == core.Unknown {
		return core.Transaction{}, ErrUnknownDirection
	}
	return core.Transaction{
		SourceID:    SourceID(raw),
		Date:        e.ExtractDate(raw.TimestampMillis),
		Amount:      amount,
		Direction:   dir,
		Description: e.ExtractDescription(raw.Body),
		Body:        raw.Body,
		Sender:      raw.Sender,
	}, nil
}

// ExtractDate converts the timestamp to a calendar date. A missing or
// malformed timestamp yields the invalid date.
func (e *Extractor) ExtractDate(ts core.Millis) core.Date {
	t, ok := ts.Time()
	if !ok {
		return core.Date{}
	}
	t = t.In(e.loc)
	if t.Year() < 1 || t.Year() > 9999 {
		return core.Date{}
	}
	return core.DateOf(t)
}

// ExtractDescription returns the counterparty of the first matching
// pattern, or "" when none matches.
func (e *Extractor) ExtractDescription(body string) string {
	d, _ := e.MatchDescription(body)
	return d
}

// MatchDescription is ExtractDescription that also names the matcher that
// produced the description.
func (e *Extractor) MatchDescription(body string) (description, matcherName string) {
	for _, m := range e.matchers {
		sub := m.re.FindStringSubmatch(body)
		if len(sub) < 2 {
			continue
		}
		if d := m.format(sub[1]); d != "" {
			return d, m.name
		}
	}
	return "", ""
}

// ExtractAmount parses the rupee amount following "Rs" or "Rs.".
func ExtractAmount(body string) (core.Money, bool) {
	sub := amountPattern.FindStringSubmatch(body)
	if len(sub) < 2 {
		return core.Money{}, false
	}
	m, err := core.ParseAmount(sub[1])
	if err != nil {
		return core.Money{}, false
	}
	return m, true
}

// ExtractDirection classifies the money flow. "credited" wins over the
// debit words when both appear.
func ExtractDirection(body string) core.Direction {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "credited"):
		return core.Credit
	case strings.Contains(lower, "debited"),
		strings.Contains(lower, "sent"),
		strings.Contains(lower, "paid"):
		return core.Debit
	}
	return core.Unknown
}

// SourceID returns the dedup key of a message. Providers that do not assign
// ids get a stable id derived from sender, timestamp and body.
func SourceID(raw core.RawMessage) string {
	if id := strings.TrimSpace(raw.ExternalID); id != "" {
		return id
	}
	key := raw.Sender + "\x00" + string(raw.TimestampMillis) + "\x00" + raw.Body
	return uuid.NewSHA1(sourceNamespace, []byte(key)).String()
}

func trimCapture(s string) string {
	return strings.TrimRightFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}
