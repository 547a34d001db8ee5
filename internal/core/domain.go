package core

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Credit  Direction = "credit"
	Debit   Direction = "debit"
	Unknown Direction = ""
)

// CategoryOther is the terminal fallback category.
const CategoryOther = "Other"

// InvalidDateLabel is rendered for transactions whose source timestamp could not be read.
const InvalidDateLabel = "Invalid Date"

const dateLayout = "2006-01-02"

type (
	Direction string

	// Date is a calendar date without a time component. The zero value is the
	// invalid date.
	Date struct {
		time.Time
	}

	// Millis is an epoch-milliseconds timestamp kept in its textual form so a
	// malformed value survives decoding.
	Millis string

	// RawMessage is an unprocessed text message as handed over by a provider.
	RawMessage struct {
		ExternalID      string `json:"external_id"`
		Sender          string `json:"sender"`
		Body            string `json:"body"`
		TimestampMillis Millis `json:"timestamp_millis"`
	}

	Transaction struct {
		ID          int64 // Row id, assigned by the store
		SourceID    string
		Date        Date
		Amount      Money
		Direction   Direction
		Description string // empty means none
		Category    string // empty means not yet categorized
		Body        string
		Sender      string
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrEmptySourceID    = errors.New("empty source id")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate reads an ISO date. The invalid-date label and the empty string
// yield the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == InvalidDateLabel {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Valid() bool {
	return !d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (d Date) String() string {
	if !d.Valid() {
		return InvalidDateLabel
	}
	return d.Format(dateLayout)
}

// MonthKey returns the YYYY-MM bucket of the date.
func (d Date) MonthKey() string {
	if !d.Valid() {
		return ""
	}
	return d.Format("2006-01")
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Compare orders dates chronologically. Invalid dates sort before every valid one.
func (d Date) Compare(o Date) int {
	switch {
	case !d.Valid() && !o.Valid():
		return 0
	case !d.Valid():
		return -1
	case !o.Valid():
		return 1
	}
	return d.Time.Compare(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (m *Millis) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*m = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*m = Millis(v)
		return nil
	}
	*m = Millis(s)
	return nil
}

// Time converts the timestamp to an instant. It reports false when the value
// is missing, not a finite number, or outside years 1 through 9999.
func (m Millis) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(m))
	if s == "" {
		return time.Time{}, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return inDateRange(time.UnixMilli(v))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return time.Time{}, false
	}
	return inDateRange(time.UnixMilli(int64(f)))
}

func inDateRange(t time.Time) (time.Time, bool) {
	if y := t.UTC().Year(); y < 1 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// MillisOf formats an instant as epoch milliseconds.
func MillisOf(t time.Time) Millis {
	return Millis(strconv.FormatInt(t.UnixMilli(), 10))
}

func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

// NeedsCategorization reports whether the transaction has never been assigned a category.
func (t Transaction) NeedsCategorization() bool {
	return t.Category == ""
}

// EffectiveCategory returns the category used for grouping.
func (t Transaction) EffectiveCategory() string {
	if t.Category == "" {
		return CategoryOther
	}
	return t.Category
}

// DisplayName returns the description, falling back to the sender and then "Unknown".
func (t Transaction) DisplayName() string {
	if t.Description != "" {
		return t.Description
	}
	if t.Sender != "" {
		return t.Sender
	}
	return "Unknown"
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.SourceID) == "" {
		return ErrEmptySourceID
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !t.Direction.Valid() {
		return ErrInvalidDirection
	}
	return nil
}
