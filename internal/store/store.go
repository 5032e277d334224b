// Package store holds the loaded dataset in memory. Transactions are
// never persisted between runs; the loader rebuilds the snapshot and
// replaces it atomically.
package store

import (
	"sort"
	"sync"
	"time"

	"foncier/server/internal/domain"
)

// Store is a read-mostly snapshot of transactions keyed by dataset year.
type Store struct {
	mu        sync.RWMutex
	byYear    map[int][]domain.Transaction
	updatedAt time.Time
}

// YearCount summarizes one loaded year.
type YearCount struct {
	Year         int `json:"year"`
	Transactions int `json:"transactions"`
}

// New creates an empty store.
func New() *Store {
	return &Store{byYear: make(map[int][]domain.Transaction)}
}

// Replace swaps in a freshly loaded snapshot.
func (s *Store) Replace(byYear map[int][]domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byYear = byYear
	s.updatedAt = time.Now()
}

// Year returns one year's collection (nil when the year is not loaded).
func (s *Store) Year(year int) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byYear[year]
}

// Snapshot returns the current year mapping. The per-year slices are
// read-only once published; callers must not mutate them.
func (s *Store) Snapshot() map[int][]domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byYear
}

// Summary returns per-year record counts sorted by year.
func (s *Store) Summary() []YearCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := make([]YearCount, 0, len(s.byYear))
	for year, txs := range s.byYear {
		summary = append(summary, YearCount{Year: year, Transactions: len(txs)})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Year < summary[j].Year })
	return summary
}

// UpdatedAt returns the time of the last snapshot replacement.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
