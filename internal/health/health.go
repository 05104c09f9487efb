// Package health tracks upstream reachability as a sliding failure count
// and derives the two circuit-breaker gates from it.
package health

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"poolPulse/internal/model"
)

// Config sets the gate thresholds. MaxDowntime must exceed MaxFailures,
// so the down gate can only engage after the lock gate.
type Config struct {
	MaxFailures int
	MaxDowntime int
}

// State is the process-wide health record. The watchdog is its only
// writer; every other component reads. The state is never persisted; a
// restart starts all-clear regardless of the real upstream condition.
type State struct {
	mu sync.RWMutex

	failures int
	locked   bool
	down     bool

	maxFailures int
	maxDowntime int
	logger      *zap.Logger
}

// New builds an all-clear State.
func New(cfg Config, logger *zap.Logger) (*State, error) {
	if cfg.MaxFailures <= 0 {
		return nil, fmt.Errorf("max failures must be positive, got %d", cfg.MaxFailures)
	}
	if cfg.MaxDowntime <= cfg.MaxFailures {
		return nil, fmt.Errorf("max downtime (%d) must exceed max failures (%d)", cfg.MaxDowntime, cfg.MaxFailures)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		maxFailures: cfg.MaxFailures,
		maxDowntime: cfg.MaxDowntime,
		logger:      logger,
	}, nil
}

// RecordFailure counts one fully failed polling round and engages the
// gates whose thresholds the counter crosses. Transitions log once, on
// the edge.
func (s *State) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures++
	s.logger.Warn("pool fetch round failed",
		zap.Int("failures", s.failures),
		zap.Int("max_downtime", s.maxDowntime))

	if s.failures >= s.maxFailures && !s.locked {
		s.locked = true
		s.logger.Warn("transactions locked: upstream appears unstable",
			zap.Int("failures", s.failures))
	}
	if s.failures >= s.maxDowntime && !s.down {
		s.down = true
		s.logger.Error("upstream marked down: entering maintenance mode",
			zap.Int("failures", s.failures))
	}
}

// RecordSuccess clears the counter and both gates in a single step. Any
// reachable round counts. Partial per-pool failures do not degrade
// system-wide health.
func (s *State) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked || s.down {
		s.logger.Info("upstream recovered", zap.Int("failures", s.failures))
	}
	s.failures = 0
	s.locked = false
	s.down = false
}

// Reset is the manual, audited override.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("health state manually reset",
		zap.Int("failures", s.failures),
		zap.Bool("was_locked", s.locked),
		zap.Bool("was_down", s.down))
	s.failures = 0
	s.locked = false
	s.down = false
}

// Locked reports whether write operations are refused.
func (s *State) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

// Down reports whether the upstream is considered offline.
func (s *State) Down() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.down
}

// FailureCount returns the current counter value.
func (s *State) FailureCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

// Status returns a consistent point-in-time view.
func (s *State) Status() model.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.HealthStatus{
		IsDown:               s.down,
		IsTransactionsLocked: s.locked,
		FailureCount:         s.failures,
		MaxFailures:          s.maxFailures,
		MaxDowntime:          s.maxDowntime,
	}
}
