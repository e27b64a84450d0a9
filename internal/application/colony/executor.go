package colony

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/adapters/metrics"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// Operation mutates a loaded colony; returning an error discards every change
type Operation func(ctx context.Context, c *colony.Colony, now time.Time) error

// Executor runs colony operations one player at a time: per-player lock,
// database transaction, load, mutate, save, commit, unlock.
type Executor struct {
	uow    colony.UnitOfWork
	locks  *PlayerLocks
	policy colony.Policy
	clock  shared.Clock
}

// NewExecutor creates an executor; a nil clock means wall-clock time
func NewExecutor(uow colony.UnitOfWork, locks *PlayerLocks, policy colony.Policy, clock shared.Clock) *Executor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if locks == nil {
		locks = NewPlayerLocks()
	}
	return &Executor{uow: uow, locks: locks, policy: policy, clock: clock}
}

func (e *Executor) Policy() colony.Policy { return e.policy }
func (e *Executor) Clock() shared.Clock   { return e.clock }

// Run loads the player's colony, creating it with defaults on first reference
func (e *Executor) Run(ctx context.Context, key shared.PlayerKey, op Operation) error {
	return e.execute(ctx, key, false, op)
}

// Init creates the player's colony and fails with AlreadyInitialized if it exists
func (e *Executor) Init(ctx context.Context, key shared.PlayerKey, op Operation) error {
	return e.execute(ctx, key, true, op)
}

func (e *Executor) execute(ctx context.Context, key shared.PlayerKey, createOnly bool, op Operation) error {
	unlock := e.locks.Lock(key)
	defer unlock()

	var (
		completions []track.Completion
		entries     []*ledger.Transaction
		created     bool
	)

	err := e.uow.Do(ctx, func(ctx context.Context, tx colony.Tx) error {
		now := e.clock.Now()

		c, err := e.load(ctx, tx.Colonies(), key, now)
		if err != nil {
			return err
		}
		if createOnly && !c.IsNew() {
			return shared.NewAlreadyInitializedError(key.String())
		}

		if err := op(ctx, c, now); err != nil {
			return err
		}

		entries, err = e.save(ctx, tx, c)
		if err != nil {
			return err
		}
		completions = c.DrainCompletions()
		created = c.IsNew()
		return nil
	})
	if err != nil {
		return err
	}

	for _, entry := range entries {
		recordTransaction(entry)
	}

	logger := common.LoggerFromContext(ctx)
	if created {
		logger.Log(common.LevelInfo, "Colony created", map[string]interface{}{
			"player": key.String(),
		})
	}
	for _, done := range completions {
		metrics.RecordBuildCompleted(done.Kind.Track().String(), done.Kind.String(), done.Amount)
		logger.Log(common.LevelInfo, "Build completed", map[string]interface{}{
			"player":       key.String(),
			"track":        done.Kind.Track().String(),
			"kind":         done.Kind.String(),
			"amount":       done.Amount,
			"new_count":    done.NewCount,
			"completed_at": done.CompletedAt.Format(time.RFC3339),
		})
	}
	return nil
}

func (e *Executor) load(ctx context.Context, repo colony.Repository, key shared.PlayerKey, now time.Time) (*colony.Colony, error) {
	resources, err := repo.FindResources(ctx, key)
	if errors.Is(err, colony.ErrNotFound) {
		// claim the row before mutating; a writer in another process may be creating it too
		c := colony.New(key, e.policy, now)
		created, claimErr := repo.CreateResources(ctx, c.Resources())
		if claimErr != nil {
			return nil, claimErr
		}
		if created {
			return c, nil
		}
		resources, err = repo.FindResources(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}

	records, err := repo.FindRecords(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load track records: %w", err)
	}
	return colony.Reconstruct(resources, records, e.policy), nil
}

func (e *Executor) save(ctx context.Context, tx colony.Tx, c *colony.Colony) ([]*ledger.Transaction, error) {
	if err := tx.Colonies().SaveResources(ctx, c.Resources()); err != nil {
		return nil, fmt.Errorf("failed to save resources: %w", err)
	}
	if err := tx.Colonies().SaveRecords(ctx, c.PlayerKey(), c.Tracks().All()); err != nil {
		return nil, fmt.Errorf("failed to save track records: %w", err)
	}

	entries := c.DrainTransactions()
	for _, entry := range entries {
		if err := tx.Transactions().Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
	}
	return entries, nil
}

func recordTransaction(entry *ledger.Transaction) {
	amounts := entry.Amounts()
	metrics.RecordResourceMovement(entry.TransactionType().String(), "metal", amounts.Metal)
	metrics.RecordResourceMovement(entry.TransactionType().String(), "crystal", amounts.Crystal)
	metrics.RecordResourceMovement(entry.TransactionType().String(), "deuterium", amounts.Deuterium)
}
