package colony

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/colony-engine/internal/adapters/metrics"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// SweeperConfig controls the background completion sweep
type SweeperConfig struct {
	Interval         time.Duration
	PlayersPerSecond float64
	BatchSize        int
}

// RefreshFunc brings one player's colony up to date
type RefreshFunc func(ctx context.Context, key shared.PlayerKey) error

// Sweeper periodically touches players whose builds are due so completions
// become visible without waiting for the player's next request. Lazy
// resolution on read stays authoritative; the sweep only triggers it.
type Sweeper struct {
	uow      colony.UnitOfWork
	executor *Executor
	limiter  *rate.Limiter
	config   SweeperConfig
	refresh  RefreshFunc
}

func NewSweeper(uow colony.UnitOfWork, executor *Executor, config SweeperConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.PlayersPerSecond <= 0 {
		config.PlayersPerSecond = 10
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	burst := int(config.PlayersPerSecond)
	if burst < 1 {
		burst = 1
	}
	s := &Sweeper{
		uow:      uow,
		executor: executor,
		limiter:  rate.NewLimiter(rate.Limit(config.PlayersPerSecond), burst),
		config:   config,
	}
	s.refresh = s.refreshDirect
	return s
}

// SetRefresher replaces the direct executor call, e.g. to route sweeps through the mediator
func (s *Sweeper) SetRefresher(fn RefreshFunc) {
	if fn == nil {
		fn = s.refreshDirect
	}
	s.refresh = fn
}

func (s *Sweeper) refreshDirect(ctx context.Context, key shared.PlayerKey) error {
	return s.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		c.Refresh(now)
		return nil
	})
}

// SweepOnce resolves every player with a due build and returns how many were touched
func (s *Sweeper) SweepOnce(ctx context.Context) (touched int, err error) {
	started := time.Now()
	defer func() {
		metrics.RecordSweep(touched, time.Since(started).Seconds())
	}()

	now := s.executor.Clock().Now()

	var due []shared.PlayerKey
	err = s.uow.Do(ctx, func(ctx context.Context, tx colony.Tx) error {
		var err error
		due, err = tx.Colonies().ListDueBuilds(ctx, now, s.config.BatchSize)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list due builds: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	for _, key := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			return touched, err
		}

		if err := s.refresh(ctx, key); err != nil {
			logger.Log(common.LevelError, "Sweep failed for player", map[string]interface{}{
				"player": key.String(),
				"error":  err.Error(),
			})
			continue
		}
		touched++
	}
	return touched, nil
}

// Run sweeps every interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, "Completion sweeper started", map[string]interface{}{
		"interval":           s.config.Interval.String(),
		"players_per_second": s.config.PlayersPerSecond,
	})

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log(common.LevelInfo, "Completion sweeper stopped", nil)
			return nil
		case <-ticker.C:
			touched, err := s.SweepOnce(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Log(common.LevelError, "Completion sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if touched > 0 {
				logger.Log(common.LevelDebug, "Completion sweep finished", map[string]interface{}{
					"players": touched,
				})
			}
		}
	}
}
