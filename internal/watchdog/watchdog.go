// Package watchdog polls the configured pools, keeps the cache fresh,
// and drives the health gates from each round's outcome.
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"poolPulse/internal/cache"
	"poolPulse/internal/health"
	"poolPulse/internal/metrics"
	"poolPulse/internal/model"
)

// ErrUnknownPool marks a request for a pool that is not configured. This
// is a deployment defect and fails loudly instead of feeding the health
// counter.
var ErrUnknownPool = errors.New("unknown pool")

// StateReader fetches one pool's authoritative state. (nil, nil) means
// the pool is not initialized yet; an error means transient upstream
// trouble.
type StateReader interface {
	FetchPoolState(ctx context.Context, pool model.PoolIdentity) (*model.PoolSnapshot, error)
}

// Config holds the watchdog's runtime settings.
type Config struct {
	Pools        []model.PoolIdentity
	PollInterval time.Duration
	FetchTimeout time.Duration
}

// Watchdog owns the health state and the pool cache writes. Rounds run
// serially on one goroutine; per-pool fetches inside a round fan out.
type Watchdog struct {
	cfg     Config
	reader  StateReader
	cache   *cache.PoolCache
	health  *health.State
	metrics *metrics.Metrics
	logger  *zap.Logger
	byName  map[string]model.PoolIdentity
}

// New builds a Watchdog and validates its pool set.
func New(cfg Config, reader StateReader, poolCache *cache.PoolCache, healthState *health.State, m *metrics.Metrics, logger *zap.Logger) (*Watchdog, error) {
	if reader == nil {
		return nil, fmt.Errorf("state reader is nil")
	}
	if poolCache == nil {
		return nil, fmt.Errorf("pool cache is nil")
	}
	if healthState == nil {
		return nil, fmt.Errorf("health state is nil")
	}
	if len(cfg.Pools) == 0 {
		return nil, fmt.Errorf("at least one pool is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	byName := make(map[string]model.PoolIdentity, len(cfg.Pools))
	for _, pool := range cfg.Pools {
		if _, ok := byName[pool.Name]; ok {
			return nil, fmt.Errorf("duplicate pool name: %s", pool.Name)
		}
		byName[pool.Name] = pool
	}

	return &Watchdog{
		cfg:     cfg,
		reader:  reader,
		cache:   poolCache,
		health:  healthState,
		metrics: m,
		logger:  logger,
		byName:  byName,
	}, nil
}

// Run executes rounds on the poll interval until ctx is done. Rounds are
// serialized; if one overruns the interval, the ticker drops the missed
// ticks rather than piling rounds onto a slow upstream.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.runRound(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watchdog stopped")
			return
		case <-ticker.C:
			w.runRound(ctx)
		}
	}
}

type fetchResult struct {
	pool model.PoolIdentity
	snap *model.PoolSnapshot
	err  error
}

// runRound fetches every pool concurrently, collects all results, and
// applies the round outcome. Nothing escapes to the caller; every
// failure becomes state.
func (w *Watchdog) runRound(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic during polling round", zap.Any("panic", r))
			w.health.RecordFailure()
			w.metrics.ObserveRound(metrics.RoundFailed)
			w.metrics.SetHealth(w.health.Status())
		}
	}()

	results := w.fetchAll(ctx)

	var successes, transients, notFound int
	round := make(map[string]model.PoolSnapshot, len(results))
	for _, res := range results {
		switch {
		case res.err != nil:
			transients++
			w.logger.Warn("pool fetch failed",
				zap.String("pool", res.pool.Name),
				zap.Error(res.err))
		case res.snap == nil:
			notFound++
		default:
			successes++
			round[res.pool.Name] = *res.snap
		}
	}

	switch {
	case successes > 0:
		// The upstream answered. Per-pool writes first, then the
		// aggregate as the end-of-round barrier.
		for _, snap := range round {
			w.cache.SetPool(snap)
		}
		w.cache.SetAllPools(round)
		w.health.RecordSuccess()
		w.metrics.ObserveRound(metrics.RoundOK)
		w.logger.Debug("polling round complete",
			zap.Int("updated", successes),
			zap.Int("not_found", notFound),
			zap.Int("failed", transients))
	case transients > 0:
		w.health.RecordFailure()
		w.metrics.ObserveRound(metrics.RoundFailed)
	default:
		// Every pool reported not-found: no data, but the upstream is
		// reachable. Expected absence never feeds the failure counter.
		w.metrics.ObserveRound(metrics.RoundEmpty)
		w.logger.Warn("no pools initialized upstream", zap.Int("pools", len(results)))
	}

	w.metrics.SetHealth(w.health.Status())
}

func (w *Watchdog) fetchAll(ctx context.Context) []fetchResult {
	results := make([]fetchResult, len(w.cfg.Pools))
	var wg sync.WaitGroup
	for i, pool := range w.cfg.Pools {
		wg.Add(1)
		go func(i int, pool model.PoolIdentity) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fetchResult{pool: pool, err: fmt.Errorf("fetch panic: %v", r)}
				}
			}()

			fetchCtx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
			defer cancel()

			snap, err := w.reader.FetchPoolState(fetchCtx, pool)
			results[i] = fetchResult{pool: pool, snap: snap, err: err}
		}(i, pool)
	}
	wg.Wait()
	return results
}

// ForceRefresh fetches one pool out of band, typically right after a
// successful write, and rewrites only that pool's cache entry. It never
// touches the failure counter or the aggregate; the aggregate is rebuilt
// only by full rounds.
func (w *Watchdog) ForceRefresh(ctx context.Context, name string) (*model.PoolSnapshot, error) {
	pool, ok := w.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPool, name)
	}

	var snap *model.PoolSnapshot
	err := withRetry(ctx, 1, 200*time.Millisecond, func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
		defer cancel()

		var err error
		snap, err = w.reader.FetchPoolState(fetchCtx, pool)
		if err != nil {
			w.logger.Warn("forced refresh failed", zap.String("pool", name), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("force refresh %s: %w", name, err)
	}
	if snap == nil {
		w.logger.Warn("forced refresh found no pool state", zap.String("pool", name))
		return nil, nil
	}

	w.cache.SetPool(*snap)
	w.metrics.IncForcedRefresh()
	w.logger.Debug("forced refresh complete", zap.String("pool", name))
	return snap, nil
}

// Status returns the current health view.
func (w *Watchdog) Status() model.HealthStatus {
	return w.health.Status()
}

// Reset clears the failure counter and both gates. Manual recovery only;
// the call is logged for audit.
func (w *Watchdog) Reset() {
	w.health.Reset()
	w.metrics.SetHealth(w.health.Status())
}

// Pools returns the configured pool set.
func (w *Watchdog) Pools() []model.PoolIdentity {
	return w.cfg.Pools
}
