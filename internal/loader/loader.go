// Package loader runs the per-year ingestion pipeline: fetch, decompress,
// parse, validate. Years load in parallel and fail independently.
package loader

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"foncier/server/internal/domain"
	"foncier/server/internal/parser"
)

// Loader ingests yearly dataset archives into validated transaction
// collections.
type Loader struct {
	fetcher   Fetcher
	separator rune
	logger    *logrus.Logger
}

// NewLoader creates a loader reading records split on the given
// separator.
func NewLoader(fetcher Fetcher, separator rune, logger *logrus.Logger) *Loader {
	return &Loader{
		fetcher:   fetcher,
		separator: separator,
		logger:    logger,
	}
}

// LoadYears ingests every year in [startYear, endYear] concurrently. A
// year whose fetch or header check fails contributes an empty collection
// and a warning; it never aborts the other years.
func (l *Loader) LoadYears(ctx context.Context, startYear, endYear int) map[int][]domain.Transaction {
	byYear := make(map[int][]domain.Transaction)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for year := startYear; year <= endYear; year++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()

			txs, err := l.loadYear(ctx, year)
			if err != nil {
				l.logger.WithError(err).WithField("year", year).Warn("Failed to load dataset year, keeping it empty")
				txs = nil
			}

			mu.Lock()
			byYear[year] = txs
			mu.Unlock()
		}(year)
	}
	wg.Wait()

	return byYear
}

func (l *Loader) loadYear(ctx context.Context, year int) ([]domain.Transaction, error) {
	body, err := l.fetcher.Fetch(ctx, year)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	txs, skipped, err := parser.ReadAll(body, l.separator)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"year":         year,
		"transactions": len(txs),
		"skipped":      skipped,
	}).Info("Loaded dataset year")

	return txs, nil
}
