package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1,234.50", 123450, true},
		{"1,00,000", 10000000, true},
		{"0.01", 1, true},
		{"12.345", 1235, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{",", 0, false},
		{"92233720368547758.07", 9223372036854775807, true},
		{"92233720368547758.08", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFromDecimalRoundsHalfUp(t *testing.T) {
	cases := map[string]int64{
		"10.005": 1001,
		"10.004": 1000,
		"0.125":  13,
	}
	for in, want := range cases {
		got := MoneyFromDecimal(decimal.RequireFromString(in))
		if got.Cents != want {
			t.Errorf("MoneyFromDecimal(%s) = %d, want %d", in, got.Cents, want)
		}
	}
}

func TestMoneyFormatting(t *testing.T) {
	m := Money{Cents: 123450}
	if m.String() != "1234.50" {
		t.Fatalf("String() = %q", m.String())
	}
	if m.Rupees() != 1234.5 {
		t.Fatalf("Rupees() = %v", m.Rupees())
	}
	if got := m.Sub(Money{Cents: 200000}); !got.IsNegative() || got.String() != "-765.50" {
		t.Fatalf("Sub() = %v", got)
	}
}
