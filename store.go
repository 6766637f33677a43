package main

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// errEntryNotFound is returned by Update/Delete when no entry has the given id.
var errEntryNotFound = errors.New("entry not found")

// EntryStore is the repository for logged food/exercise entries. The HTTP
// layer depends only on this interface so the storage choice (in-memory or
// Postgres) is a wiring decision in main.
type EntryStore interface {
	Create(ctx context.Context, e entry) (entry, error)
	ByDate(ctx context.Context, date string) ([]entry, error)
	ByRange(ctx context.Context, start, end string) ([]entry, error)
	Update(ctx context.Context, id int, patch entryPatch) (entry, error)
	Delete(ctx context.Context, id int) error
	EarliestDate(ctx context.Context) (*string, error)
}

/* ─── In-memory store ────────────────────────────────────────────────── */

// memoryStore keeps entries in a map with auto-incrementing integer ids.
// It is the default store when no DB_URL is configured; contents are lost
// on restart.
type memoryStore struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]entry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, entries: make(map[int]entry)}
}

func (s *memoryStore) Create(_ context.Context, e entry) (entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	now := time.Now()
	e.CreatedAt = &now
	s.entries[e.ID] = e
	return e, nil
}

func (s *memoryStore) ByDate(ctx context.Context, date string) ([]entry, error) {
	return s.ByRange(ctx, date, date)
}

func (s *memoryStore) ByRange(_ context.Context, start, end string) ([]entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entry
	for _, e := range s.entries {
		// YYYY-MM-DD compares correctly as a string.
		d := e.Date.Format("2006-01-02")
		if d >= start && d <= end {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Date.Format("2006-01-02"), out[j].Date.Format("2006-01-02")
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) Update(_ context.Context, id int, patch entryPatch) (entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return entry{}, errEntryNotFound
	}
	if patch.Date != nil {
		t, err := time.Parse("2006-01-02", *patch.Date)
		if err != nil {
			return entry{}, err
		}
		e.Date = DateOnly{t}
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Qty != nil {
		e.Qty = patch.Qty
	}
	if patch.Unit != nil {
		e.Unit = patch.Unit
	}
	if patch.Calories != nil {
		e.Calories = *patch.Calories
	}
	if patch.ProteinG != nil {
		e.ProteinG = patch.ProteinG
	}
	if patch.CarbsG != nil {
		e.CarbsG = patch.CarbsG
	}
	if patch.FatG != nil {
		e.FatG = patch.FatG
	}
	s.entries[id] = e
	return e, nil
}

func (s *memoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return errEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *memoryStore) EarliestDate(_ context.Context) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var earliest string
	for _, e := range s.entries {
		d := e.Date.Format("2006-01-02")
		if earliest == "" || d < earliest {
			earliest = d
		}
	}
	if earliest == "" {
		return nil, nil
	}
	return &earliest, nil
}
