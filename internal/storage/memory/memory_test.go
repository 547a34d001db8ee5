package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spendwise/internal/core"
)

func tx(src string, cents int64) core.Transaction {
	return core.Transaction{
		SourceID:  src,
		Date:      core.NewDate(2025, 10, 1),
		Amount:    core.Money{Cents: cents},
		Direction: core.Debit,
	}
}

func TestInsertIfAbsentDedupes(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1), tx("b", 2)})
	if err != nil || n != 2 {
		t.Fatalf("first insert = %d, %v", n, err)
	}
	n, err = s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1), tx("c", 3)})
	if err != nil || n != 1 {
		t.Fatalf("second insert = %d, %v", n, err)
	}

	all, _ := s.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("want 3 rows, got %d", len(all))
	}
	if all[0].SourceID != "c" || all[0].ID != 3 {
		t.Errorf("newest row first, got %+v", all[0])
	}
}

func TestInsertIfAbsentRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	s := New()

	bad := tx("", 1)
	_, err := s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1), bad})
	if !errors.Is(err, core.ErrStore) {
		t.Fatalf("want store error, got %v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("batch partially written: %d rows", n)
	}
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1), tx("b", 2)})

	if err := s.UpdateCategory(ctx, 2, "Food"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, 2)
	if err != nil || got.Category != "Food" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if err := s.UpdateCategory(ctx, 42, "Food"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("want not found, got %v", err)
	}
}

func TestListAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1)})

	all, _ := s.ListAll(ctx)
	all[0].Category = "mutated"

	got, _ := s.Get(ctx, 1)
	if got.Category != "" {
		t.Errorf("store mutated through ListAll result")
	}
}

func TestConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.InsertIfAbsent(ctx, []core.Transaction{tx("same", 1), tx("other", 2)})
		}()
	}
	wg.Wait()

	if n, _ := s.Count(ctx); n != 2 {
		t.Errorf("want 2 rows, got %d", n)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1)})
	n, _ := s.Clear(ctx)
	if n != 1 {
		t.Errorf("cleared %d", n)
	}
	if _, err := s.InsertIfAbsent(ctx, []core.Transaction{tx("a", 1)}); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Count(ctx); c != 1 {
		t.Errorf("source id should be reusable after clear")
	}
}
