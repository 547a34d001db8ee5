package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateStringAndParse(t *testing.T) {
	if got := (Date{}).String(); got != InvalidDateLabel {
		t.Fatalf("zero date String() = %q", got)
	}
	d := NewDate(2024, 3, 9)
	if d.String() != "2024-03-09" || d.MonthKey() != "2024-03" {
		t.Fatalf("unexpected formatting %q %q", d.String(), d.MonthKey())
	}
	parsed, err := ParseDate("2024-03-09")
	if err != nil || !parsed.Equal(d.Time) {
		t.Fatalf("ParseDate = %v, %v", parsed, err)
	}
	invalid, err := ParseDate(InvalidDateLabel)
	if err != nil || invalid.Valid() {
		t.Fatalf("ParseDate(invalid label) = %v, %v", invalid, err)
	}
	if _, err := ParseDate("09/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateCompare(t *testing.T) {
	a, b := NewDate(2024, 1, 1), NewDate(2024, 1, 2)
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Fatalf("chronological compare broken")
	}
	if (Date{}).Compare(a) >= 0 {
		t.Fatalf("invalid date should sort before valid dates")
	}
}

func TestMillisUnmarshal(t *testing.T) {
	var msg RawMessage
	if err := json.Unmarshal([]byte(`{"external_id":"1","timestamp_millis":1704067200000}`), &msg); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	ts, ok := msg.TimestampMillis.Time()
	if !ok || ts.UnixMilli() != 1704067200000 {
		t.Fatalf("unexpected time %v %v", ts, ok)
	}

	if err := json.Unmarshal([]byte(`{"external_id":"2","timestamp_millis":"garbage"}`), &msg); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if _, ok := msg.TimestampMillis.Time(); ok {
		t.Fatalf("garbage timestamp should not convert")
	}

	if _, ok := Millis("").Time(); ok {
		t.Fatalf("empty timestamp should not convert")
	}
	for _, m := range []Millis{"999999999999999999", "-999999999999999999", "1e300", "253402300800000"} {
		if _, ok := m.Time(); ok {
			t.Fatalf("out-of-range timestamp %q should not convert", m)
		}
	}
	if ts, ok := Millis("253402300799999").Time(); !ok || ts.UTC().Year() != 9999 {
		t.Fatalf("last millisecond of 9999 should convert, got %v %v", ts, ok)
	}
}

func TestTransactionHelpers(t *testing.T) {
	tx := Transaction{SourceID: "1", Direction: Debit, Amount: Money{Cents: 100}, Sender: "VM-HDFCBK"}
	if !tx.NeedsCategorization() {
		t.Fatalf("empty category should need categorization")
	}
	if tx.EffectiveCategory() != CategoryOther {
		t.Fatalf("EffectiveCategory() = %q", tx.EffectiveCategory())
	}
	if tx.DisplayName() != "VM-HDFCBK" {
		t.Fatalf("DisplayName() = %q", tx.DisplayName())
	}
	tx.Category = CategoryOther
	if tx.NeedsCategorization() {
		t.Fatalf("Other is a terminal category")
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bads := []Transaction{
		{SourceID: "", Direction: Debit},
		{SourceID: "1", Direction: Unknown},
		{SourceID: "1", Direction: Credit, Amount: Money{Cents: -1}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestErrorTypes(t *testing.T) {
	err := error(&StoreError{Op: "insert", Err: errors.New("disk full")})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("StoreError should match ErrStore")
	}
	perr := error(&ProviderError{Op: "list", Err: ErrPermissionDenied})
	if !errors.Is(perr, ErrPermissionDenied) || !IsProviderError(perr) {
		t.Fatalf("ProviderError should unwrap")
	}
}
