// Package memory is an in-process transaction store used for tests and
// for running without a database file.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"spendwise/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
	bySrc  map[string]int
}

func New() *Store {
	return &Store{nextID: 1, bySrc: map[string]int{}}
}

// CreateTransactionsSchema is a no-op for the memory store.
func (s *Store) CreateTransactionsSchema(context.Context) error { return nil }

// InsertIfAbsent appends rows whose source id is not yet stored. The batch is
// validated first so a failing batch leaves the store untouched.
func (s *Store) InsertIfAbsent(_ context.Context, batch []core.Transaction) (int, error) {
	for _, t := range batch {
		if err := t.Validate(); err != nil {
			return 0, &core.StoreError{Op: "insert", Err: fmt.Errorf("transaction %q: %w", t.SourceID, err)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, t := range batch {
		if _, ok := s.bySrc[t.SourceID]; ok {
			continue
		}
		t.ID = s.nextID
		s.nextID++
		s.bySrc[t.SourceID] = len(s.items)
		s.items = append(s.items, t)
		inserted++
	}
	return inserted, nil
}

// ListAll returns a copy of every row, newest row first.
func (s *Store) ListAll(context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.items)
	slices.Reverse(out)
	return out, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return s.items[i], nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	s.items[i].Category = category
	return nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *Store) Clear(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.items))
	s.items = nil
	s.bySrc = map[string]int{}
	return n, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// indexOf relies on ids being assigned in append order.
func (s *Store) indexOf(id int64) int {
	i, ok := slices.BinarySearchFunc(s.items, id, func(t core.Transaction, id int64) int {
		switch {
		case t.ID < id:
			return -1
		case t.ID > id:
			return 1
		}
		return 0
	})
	if !ok {
		return -1
	}
	return i
}
