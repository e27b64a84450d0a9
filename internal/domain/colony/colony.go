// Package colony is the orchestration layer of the economy: it combines a
// player's resource ledger with their track records and enforces the rules
// for starting and cancelling builds.
package colony

import (
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/production"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// Colony is the aggregate root of one player's economy.
// It is not safe for concurrent use; callers serialize access per player.
type Colony struct {
	playerKey  shared.PlayerKey
	resources  *ledger.PlayerResources
	tracks     *track.Set
	policy     Policy
	aggregator *production.Aggregator
	isNew      bool

	// produced by operations, drained by the caller after saving
	transactions []*ledger.Transaction
	completions  []track.Completion
}

// BuildResult is returned by StartBuild
type BuildResult struct {
	Record   *track.Record
	Cost     rules.Cost
	Duration time.Duration
}

// CancelResult is returned by CancelBuild
type CancelResult struct {
	Record *track.Record
	Refund rules.Cost
	Amount int
}

// New creates a colony with default stock and level-0 records for every facility
func New(playerKey shared.PlayerKey, policy Policy, now time.Time) *Colony {
	c := &Colony{
		playerKey:  playerKey,
		resources:  ledger.NewPlayerResources(playerKey, policy.Defaults, now),
		tracks:     track.NewSet(),
		policy:     policy,
		aggregator: production.NewAggregator(policy.BaseRates),
		isNew:      true,
	}
	c.tracks.EnsureTrack(rules.TrackFacilities)
	c.recomputeRates()
	return c
}

// Reconstruct rebuilds a colony from persisted state
func Reconstruct(resources *ledger.PlayerResources, records []*track.Record, policy Policy) *Colony {
	return &Colony{
		playerKey:  resources.PlayerKey(),
		resources:  resources,
		tracks:     track.NewSetFromRecords(records),
		policy:     policy,
		aggregator: production.NewAggregator(policy.BaseRates),
	}
}

// Getters

func (c *Colony) PlayerKey() shared.PlayerKey        { return c.playerKey }
func (c *Colony) Resources() *ledger.PlayerResources { return c.resources }
func (c *Colony) Tracks() *track.Set                 { return c.tracks }
func (c *Colony) Policy() Policy                     { return c.policy }

// IsNew reports whether the colony was created in this unit of work
func (c *Colony) IsNew() bool { return c.isNew }

// DrainTransactions returns and forgets the ledger entries produced so far
func (c *Colony) DrainTransactions() []*ledger.Transaction {
	out := c.transactions
	c.transactions = nil
	return out
}

// DrainCompletions returns and forgets the builds completed by Refresh
func (c *Colony) DrainCompletions() []track.Completion {
	out := c.completions
	c.completions = nil
	return out
}

// Refresh brings the colony up to now. Due builds are completed in time
// order, with production accrued up to each completion under the rates that
// were in effect, then rates are recomputed and accrual runs to now.
func (c *Colony) Refresh(now time.Time) []track.Completion {
	c.recomputeRates()

	var completed []track.Completion
	for _, record := range c.dueRecords(now) {
		c.resources.Accrue(*record.CompletesAt(), 0)
		if completion, ok := record.Resolve(now); ok {
			completed = append(completed, completion)
			c.recomputeRates()
		}
	}

	c.resources.Accrue(now, c.policy.AccrualDebounce)
	c.completions = append(c.completions, completed...)
	return completed
}

func (c *Colony) dueRecords(now time.Time) []*track.Record {
	var due []*track.Record
	for _, r := range c.tracks.All() {
		if r.IsDue(now) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].CompletesAt().Before(*due[j].CompletesAt())
	})
	return due
}

func (c *Colony) recomputeRates() {
	c.aggregator.Apply(c.resources, c.tracks.FacilityLevels())
}

// StartBuild transitions kind to in-progress. Checks run in a fixed order:
// amount, slot (AlreadyBuilding, then ResearchBusy), requirements,
// uniqueness, affordability.
func (c *Colony) StartBuild(kind rules.Kind, amount int, now time.Time) (*BuildResult, error) {
	if err := c.validateAmount(kind, amount); err != nil {
		return nil, err
	}

	c.Refresh(now)

	record := c.tracks.Ensure(kind)
	if record.IsInProgress() {
		return nil, shared.NewAlreadyBuildingError(
			c.playerKey.String(), kind.Track().String(), kind.String(),
			record.InProgressAmount(), *record.CompletesAt(),
		)
	}
	if kind.Track() == rules.TrackResearch {
		if active, busy := c.tracks.ActiveResearch(); busy {
			return nil, shared.NewResearchBusyError(c.playerKey.String(), active.Kind().String(), *active.CompletesAt())
		}
	}

	if req, current, unmet := rules.FirstUnmet(rules.Requirements(kind), c.tracks); unmet {
		return nil, shared.NewRequirementNotMetError(c.playerKey.String(), req.Kind.String(), req.Level, current)
	}

	if d, ok := kind.(rules.DefenseKind); ok && d.IsUnique() {
		if record.Count()+record.InProgressAmount() > 0 {
			return nil, shared.NewAlreadyOwnedError(c.playerKey.String(), kind.String())
		}
	}

	cost, duration := rules.Quote(kind, record.Count(), amount, c.tracks.Support().Effective())
	if err := c.resources.Deduct(cost); err != nil {
		return nil, err
	}

	if err := record.Start(amount, now, duration, cost); err != nil {
		// unreachable after the checks above; restore the stock
		c.resources.Credit(cost)
		return nil, fmt.Errorf("failed to start %s: %w", kind, err)
	}

	if !cost.IsZero() {
		tx, err := ledger.BuildCharge(c.playerKey, now, kind, amount, cost)
		if err != nil {
			return nil, fmt.Errorf("failed to record charge: %w", err)
		}
		c.transactions = append(c.transactions, tx)
	}

	return &BuildResult{Record: record, Cost: cost, Duration: duration}, nil
}

func (c *Colony) validateAmount(kind rules.Kind, amount int) error {
	if amount < 1 {
		return shared.NewValidationError("amount", fmt.Sprintf("must be at least 1, got %d", amount))
	}
	if kind.Track().IsLevelled() && amount != 1 {
		return shared.NewValidationError("amount", fmt.Sprintf("%s advances one level at a time", kind))
	}
	if d, ok := kind.(rules.DefenseKind); ok {
		if d.IsUnique() && amount != 1 {
			return shared.NewValidationError("amount", fmt.Sprintf("only one %s can exist per colony", kind))
		}
		if amount > c.policy.MaxDefenseBatch {
			return shared.NewValidationError("amount",
				fmt.Sprintf("batch of %d exceeds the maximum of %d", amount, c.policy.MaxDefenseBatch))
		}
	}
	return nil
}

// CancelBuild stops the in-progress build of kind and refunds part of its charge
func (c *Colony) CancelBuild(kind rules.Kind, now time.Time) (*CancelResult, error) {
	c.Refresh(now)

	record := c.tracks.Ensure(kind)
	if !record.IsInProgress() {
		return nil, shared.NewNoActiveBuildError(c.playerKey.String(), kind.Track().String(), kind.String())
	}

	refund, amount, err := record.Cancel(c.policy.RefundRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel %s: %w", kind, err)
	}
	c.resources.Credit(refund)

	if !refund.IsZero() {
		tx, err := ledger.BuildRefund(c.playerKey, now, kind, amount, refund)
		if err != nil {
			return nil, fmt.Errorf("failed to record refund: %w", err)
		}
		c.transactions = append(c.transactions, tx)
	}

	return &CancelResult{Record: record, Refund: refund, Amount: amount}, nil
}

// Grant credits resources outside the build flow (operator action)
func (c *Colony) Grant(amounts rules.Cost, reason string, now time.Time) error {
	if amounts.Metal < 0 || amounts.Crystal < 0 || amounts.Deuterium < 0 {
		return shared.NewValidationError("amounts", "grant amounts must not be negative")
	}
	if amounts.IsZero() {
		return shared.NewValidationError("amounts", "grant must include at least one resource")
	}

	c.Refresh(now)
	c.resources.Credit(amounts)

	tx, err := ledger.AdminGrant(c.playerKey, now, amounts, reason)
	if err != nil {
		return fmt.Errorf("failed to record grant: %w", err)
	}
	c.transactions = append(c.transactions, tx)
	return nil
}
