package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"spendwise/internal/core"
)

func TestCategorize(t *testing.T) {
	c := Default()
	cases := []struct {
		name        string
		body        string
		description string
		want        string
	}{
		{"payee beats keyword", "Rs 119 debited towards Spotify", "Spotify", "Subscription"},
		{"keyword on body", "Rs 119 debited towards Spotify", "", "Entertainment"},
		{"keyword order", "Rs 500 paid at INOX movie", "", "Entertainment"},
		{"payee on description", "Rs 300 paid via UPI", "Zomato Ltd", "Food"},
		{"multi word payee", "Rs 60 paid", "Kamdhenu Milk Distributor", "Groceries"},
		{"salary", "Salary credited Rs 50000", "", "Income"},
		{"transfer", "Rs 20 sent via UPI", "", "Transfer"},
		{"fallback", "Rs 200 debited", "", Other},
		{"unknown payee falls through", "Rs 200 debited for petrol", "Some Shop", "Fuel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Categorize(tc.body, tc.description); got != tc.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tc.body, tc.description, got, tc.want)
			}
		})
	}
}

func TestCategorizeNeverEmpty(t *testing.T) {
	c := New(nil, nil)
	if got := c.Categorize("", ""); got != Other {
		t.Fatalf("expected %q, got %q", Other, got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "payees:\n  - pattern: Acme\n    category: Work\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := c.Categorize("Rs 1 paid", "ACME corp"); got != "Work" {
		t.Fatalf("custom payee rule not applied, got %q", got)
	}
	if got := c.Categorize("Rs 1 paid for fuel", ""); got != "Fuel" {
		t.Fatalf("default keyword rules should be kept, got %q", got)
	}
	// custom payees replace the defaults
	if got := c.Categorize("Rs 1 paid", "Spotify"); got != Other {
		t.Fatalf("expected default payees to be replaced, got %q", got)
	}
}

func TestLoadFileRejectsIncompleteRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("keywords:\n  - pattern: gym\n"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected validation error for rule without category")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSelectForCategorization(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Category: ""},
		{ID: 2, Category: Other},
		{ID: 3, Category: "Food"},
		{ID: 4},
	}
	got := SelectForCategorization(txs)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("unexpected selection %+v", got)
	}
}

func TestCategoriesListsEveryLabel(t *testing.T) {
	cats := Default().Categories()
	if cats[len(cats)-1] != Other {
		t.Fatalf("expected fallback last, got %v", cats)
	}
	seen := map[string]bool{}
	for _, c := range cats {
		if seen[c] {
			t.Fatalf("duplicate category %q", c)
		}
		seen[c] = true
	}
	for _, want := range []string{"Subscription", "Cash Withdrawal", "Income", "Groceries"} {
		if !seen[want] {
			t.Errorf("missing category %q", want)
		}
	}
}
