package track

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// Status is the build state of a record
type Status string

const (
	// StatusIdle means nothing is under construction for this kind
	StatusIdle Status = "IDLE"

	// StatusInProgress means a build is running and completesAt is set
	StatusInProgress Status = "IN_PROGRESS"
)

// Completion describes a build that resolution has just finished
type Completion struct {
	Kind        rules.Kind
	Amount      int
	CompletedAt time.Time
	NewCount    int
}

// Record is the per-(player, kind) state machine: IDLE → IN_PROGRESS → IDLE.
//
// Invariants:
// - inProgress > 0 iff completesAt != nil
// - levelled kinds (facilities, research) build exactly one level at a time
// - count (level or quantity) only grows, and only through Resolve
type Record struct {
	kind        rules.Kind
	count       int
	inProgress  int
	startedAt   *time.Time
	completesAt *time.Time
	chargedCost rules.Cost
}

// NewRecord creates an idle level-0 record
func NewRecord(kind rules.Kind) *Record {
	return &Record{kind: kind}
}

// ReconstructRecord rebuilds a record from persistence, enforcing the in-progress invariant
func ReconstructRecord(
	kind rules.Kind,
	count int,
	inProgress int,
	startedAt *time.Time,
	completesAt *time.Time,
	chargedCost rules.Cost,
) (*Record, error) {
	if count < 0 || inProgress < 0 {
		return nil, fmt.Errorf("record %s: negative count %d or in-progress amount %d", kind, count, inProgress)
	}
	if (inProgress > 0) != (completesAt != nil) {
		return nil, fmt.Errorf("record %s: in-progress amount %d inconsistent with completion time", kind, inProgress)
	}
	return &Record{
		kind:        kind,
		count:       count,
		inProgress:  inProgress,
		startedAt:   startedAt,
		completesAt: completesAt,
		chargedCost: chargedCost,
	}, nil
}

// Getters

func (r *Record) Kind() rules.Kind   { return r.kind }
func (r *Record) Track() rules.Track { return r.kind.Track() }

// Count is the level for facilities and research, the unit quantity for defense
func (r *Record) Count() int { return r.count }

func (r *Record) InProgressAmount() int   { return r.inProgress }
func (r *Record) StartedAt() *time.Time   { return r.startedAt }
func (r *Record) CompletesAt() *time.Time { return r.completesAt }
func (r *Record) ChargedCost() rules.Cost { return r.chargedCost }
func (r *Record) IsInProgress() bool      { return r.inProgress > 0 }

func (r *Record) Status() Status {
	if r.IsInProgress() {
		return StatusInProgress
	}
	return StatusIdle
}

// IsDue reports whether the running build has reached its completion time
func (r *Record) IsDue(now time.Time) bool {
	return r.IsInProgress() && !r.completesAt.After(now)
}

// State transitions

// Start transitions IDLE → IN_PROGRESS. The caller has already charged cost.
func (r *Record) Start(amount int, now time.Time, duration time.Duration, charged rules.Cost) error {
	if r.IsInProgress() {
		return fmt.Errorf("cannot start %s: already %s", r.kind, r.Status())
	}
	if amount <= 0 {
		return fmt.Errorf("cannot start %s: amount must be positive, got %d", r.kind, amount)
	}
	if r.Track().IsLevelled() && amount != 1 {
		return fmt.Errorf("cannot start %s: levelled builds advance one level at a time", r.kind)
	}

	started := now
	completes := now.Add(duration)
	r.inProgress = amount
	r.startedAt = &started
	r.completesAt = &completes
	r.chargedCost = charged
	return nil
}

// Resolve completes a due build: count grows by the in-progress amount and the
// in-progress fields clear in the same step. Calling it again is a no-op.
func (r *Record) Resolve(now time.Time) (Completion, bool) {
	if !r.IsDue(now) {
		return Completion{}, false
	}

	completion := Completion{
		Kind:        r.kind,
		Amount:      r.inProgress,
		CompletedAt: *r.completesAt,
	}

	r.count += r.inProgress
	r.clear()

	completion.NewCount = r.count
	return completion, true
}

// Cancel transitions IN_PROGRESS → IDLE without advancing count and returns
// floor(charged × refundRatio) per component with the cancelled amount.
func (r *Record) Cancel(refundRatio float64) (rules.Cost, int, error) {
	if !r.IsInProgress() {
		return rules.Cost{}, 0, fmt.Errorf("cannot cancel %s: nothing in progress", r.kind)
	}

	charged := r.chargedCost
	if charged.IsZero() {
		// records started before charges were stored: the cost function is deterministic
		charged, _ = rules.Quote(r.kind, r.count, r.inProgress, rules.Support{})
	}

	amount := r.inProgress
	r.clear()
	return charged.Scale(refundRatio), amount, nil
}

func (r *Record) clear() {
	r.inProgress = 0
	r.startedAt = nil
	r.completesAt = nil
	r.chargedCost = rules.Cost{}
}

// Remaining is the time left until completion (0 when idle or due)
func (r *Record) Remaining(now time.Time) time.Duration {
	if !r.IsInProgress() || r.IsDue(now) {
		return 0
	}
	return r.completesAt.Sub(now)
}

func (r *Record) String() string {
	return fmt.Sprintf("Record[%s/%s, count=%d, status=%s]", r.Track(), r.kind, r.count, r.Status())
}
