// Package scheduler runs background jobs on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when configuration is invalid
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// UnsyncedOrders is the slice of the fulfillment service the sweeper drives
type UnsyncedOrders interface {
	// StaleUnsynced returns ids of orders awaiting sync whose last attempt is older than cutoff
	StaleUnsynced(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	// RetrySync re-runs delivery sync and reports whether a tracking code was obtained
	RetrySync(ctx context.Context, orderID string) (bool, error)
}

// ResyncSweeperConfig holds configuration for the resync sweeper
type ResyncSweeperConfig struct {
	// Interval between sweeps
	Interval time.Duration

	// MinAge skips orders attempted more recently than this
	MinAge time.Duration

	// BatchSize caps the orders retried per sweep
	BatchSize int

	// JobTimeout bounds a single order retry
	JobTimeout time.Duration
}

// DefaultResyncSweeperConfig returns default configuration
func DefaultResyncSweeperConfig() ResyncSweeperConfig {
	return ResyncSweeperConfig{
		Interval:   15 * time.Minute,
		MinAge:     10 * time.Minute,
		BatchSize:  20,
		JobTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration
func (c ResyncSweeperConfig) Validate() error {
	if c.Interval <= 0 || c.MinAge < 0 || c.BatchSize <= 0 || c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SweepStats summarises one sweep
type SweepStats struct {
	Attempted int
	Synced    int
	Failed    int
}

// ResyncSweeper periodically retries delivery sync for orders that never
// obtained a tracking code
type ResyncSweeper struct {
	config ResyncSweeperConfig
	orders UnsyncedOrders
	logger *zap.Logger
	now    func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweepMu   sync.Mutex
}

// NewResyncSweeper creates a new resync sweeper
func NewResyncSweeper(config ResyncSweeperConfig, orders UnsyncedOrders, logger *zap.Logger) (*ResyncSweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResyncSweeper{
		config: config,
		orders: orders,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start starts the sweep loop
func (s *ResyncSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.isRunning = true
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.runLoop(ctx)

	s.logger.Info("Resync sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("min_age", s.config.MinAge),
		zap.Int("batch_size", s.config.BatchSize),
	)
	return nil
}

// Stop stops the sweep loop, waiting for an in-flight sweep until ctx expires
func (s *ResyncSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Resync sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Resync sweeper stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *ResyncSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ResyncSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Resync sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep. Sweeps never overlap; a call made while
// another sweep is running waits for it.
func (s *ResyncSweeper) RunOnce(ctx context.Context) (SweepStats, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	var stats SweepStats
	runID := uuid.NewString()
	cutoff := s.now().Add(-s.config.MinAge)

	ids, err := s.orders.StaleUnsynced(ctx, cutoff, s.config.BatchSize)
	if err != nil {
		return stats, err
	}
	if len(ids) == 0 {
		return stats, nil
	}

	log := s.logger.With(zap.String("run_id", runID))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		stats.Attempted++

		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		synced, err := s.orders.RetrySync(jobCtx, id)
		cancel()

		switch {
		case err != nil:
			stats.Failed++
			log.Warn("Order resync errored", zap.String("order_id", id), zap.Error(err))
		case synced:
			stats.Synced++
		default:
			stats.Failed++
		}
	}

	log.Info("Resync sweep completed",
		zap.Int("attempted", stats.Attempted),
		zap.Int("synced", stats.Synced),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
