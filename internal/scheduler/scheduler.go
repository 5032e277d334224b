// Package scheduler refreshes the in-memory dataset on a fixed interval.
// The source archives are republished periodically, so a long-running
// server reloads them instead of serving a stale snapshot forever.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"foncier/server/internal/domain"
	"foncier/server/internal/store"
)

// Source produces a full year mapping; implemented by loader.Loader.
type Source interface {
	LoadYears(ctx context.Context, startYear, endYear int) map[int][]domain.Transaction
}

// Scheduler periodically reloads the dataset and replaces the store
// snapshot.
type Scheduler struct {
	source    Source
	store     *store.Store
	logger    *logrus.Logger
	interval  time.Duration
	startYear int
	endYear   int

	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures refreshes run sequentially
}

// New creates a scheduler. An interval of zero or less disables the
// periodic loop; RunOnce remains usable for startup and manual refreshes.
func New(source Source, st *store.Store, interval time.Duration, startYear, endYear int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		source:    source,
		store:     st,
		logger:    logger,
		interval:  interval,
		startYear: startYear,
		endYear:   endYear,
		stopChan:  make(chan struct{}),
	}
}

// RunOnce performs one full reload and swaps the store snapshot.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	started := time.Now()
	byYear := s.source.LoadYears(ctx, s.startYear, s.endYear)
	s.store.Replace(byYear)

	total := 0
	for _, txs := range byYear {
		total += len(txs)
	}
	s.logger.WithFields(logrus.Fields{
		"years":        len(byYear),
		"transactions": total,
		"duration":     time.Since(started).String(),
	}).Info("Dataset refresh complete")
}

// Start launches the periodic refresh loop.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("Periodic dataset refresh disabled")
		return
	}

	s.wg.Add(1)
	go s.loop()
	s.logger.Infof("Scheduled dataset refresh every %s", s.interval)
}

// Stop terminates the loop and waits for an in-flight refresh to finish.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}
