/*
scheduler.go - Calculation history retention scheduler

PURPOSE:
  Periodically prunes old optimization runs from the history table so the
  database does not grow without bound on long-running deployments.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Deletes runs older than the retention window
  - First check runs immediately on Start

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Retention:     How long to keep runs (default: 90 days)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRetentionScheduler(store, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlite/sqlite.go: DeleteCalculationsBefore
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/loan-engine/store/sqlite"
)

// RetentionScheduler prunes old calculation history in the background.
type RetentionScheduler struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Retention     time.Duration
	Enabled       bool

	logger *zap.Logger
	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a new scheduler with default settings.
func NewRetentionScheduler(store *sqlite.Store, logger *zap.Logger) *RetentionScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Retention:     90 * 24 * time.Hour,
		Enabled:       true,
		logger:        logger,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.logger.Info("retention scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.logger.Info("retention scheduler started",
		zap.Duration("check_interval", rs.CheckInterval),
		zap.Duration("retention", rs.Retention))
}

// Stop stops the scheduler.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.logger.Info("retention scheduler stopped")
	}
}

func (rs *RetentionScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.prune()

	for {
		select {
		case <-rs.ticker.C:
			rs.prune()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RetentionScheduler) prune() {
	ctx := context.Background()
	cutoff := time.Now().Add(-rs.Retention)

	deleted, err := rs.Store.DeleteCalculationsBefore(ctx, cutoff)
	if err != nil {
		rs.logger.Error("retention prune failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		rs.logger.Info("pruned old calculations",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}

// RunNow triggers an immediate prune (for testing/admin).
func (rs *RetentionScheduler) RunNow() {
	rs.prune()
}
