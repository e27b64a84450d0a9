package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// Transaction is an immutable record of resources leaving or entering a colony.
// Amounts are signed: charges are negative, refunds and grants positive.
type Transaction struct {
	id              TransactionID
	playerKey       shared.PlayerKey
	timestamp       time.Time
	transactionType TransactionType
	category        Category
	amounts         rules.Cost
	description     string
	relatedKind     string
	relatedAmount   int
}

// NewTransaction creates a new transaction with a fresh id and validates it
func NewTransaction(
	playerKey shared.PlayerKey,
	timestamp time.Time,
	transactionType TransactionType,
	category Category,
	amounts rules.Cost,
	description string,
	relatedKind string,
	relatedAmount int,
) (*Transaction, error) {
	t := &Transaction{
		id:              NewTransactionID(),
		playerKey:       playerKey,
		timestamp:       timestamp,
		transactionType: transactionType,
		category:        category,
		amounts:         amounts,
		description:     description,
		relatedKind:     relatedKind,
		relatedAmount:   relatedAmount,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructTransaction rebuilds a transaction from persistence without validation
func ReconstructTransaction(
	id TransactionID,
	playerKey shared.PlayerKey,
	timestamp time.Time,
	transactionType TransactionType,
	category Category,
	amounts rules.Cost,
	description string,
	relatedKind string,
	relatedAmount int,
) *Transaction {
	return &Transaction{
		id:              id,
		playerKey:       playerKey,
		timestamp:       timestamp,
		transactionType: transactionType,
		category:        category,
		amounts:         amounts,
		description:     description,
		relatedKind:     relatedKind,
		relatedAmount:   relatedAmount,
	}
}

// BuildCharge records the cost deducted for starting a build
func BuildCharge(playerKey shared.PlayerKey, at time.Time, kind rules.Kind, amount int, cost rules.Cost) (*Transaction, error) {
	return NewTransaction(
		playerKey, at, TransactionTypeBuildCharge, CategoryForTrack(kind.Track()),
		cost.Negate(),
		fmt.Sprintf("start %s %s x%d", kind.Track(), kind, amount),
		kind.String(), amount,
	)
}

// BuildRefund records the share of the charge returned on cancellation
func BuildRefund(playerKey shared.PlayerKey, at time.Time, kind rules.Kind, amount int, refund rules.Cost) (*Transaction, error) {
	return NewTransaction(
		playerKey, at, TransactionTypeBuildRefund, CategoryForTrack(kind.Track()),
		refund,
		fmt.Sprintf("cancel %s %s x%d", kind.Track(), kind, amount),
		kind.String(), amount,
	)
}

// AdminGrant records an operator grant
func AdminGrant(playerKey shared.PlayerKey, at time.Time, grant rules.Cost, reason string) (*Transaction, error) {
	if reason == "" {
		reason = "admin grant"
	}
	return NewTransaction(playerKey, at, TransactionTypeAdminGrant, CategoryAdmin, grant, reason, "", 0)
}

// Validate checks that the transaction satisfies all invariants
func (t *Transaction) Validate() error {
	if t.playerKey.IsZero() {
		return &ErrInvalidTransaction{Field: "player_key", Reason: "player_key cannot be empty"}
	}
	if !t.transactionType.IsValid() {
		return &ErrInvalidTransaction{
			Field:  "transaction_type",
			Reason: fmt.Sprintf("invalid transaction type: %s", t.transactionType),
		}
	}
	if !t.category.IsValid() {
		return &ErrInvalidTransaction{
			Field:  "category",
			Reason: fmt.Sprintf("invalid category: %s", t.category),
		}
	}
	if t.timestamp.IsZero() {
		return &ErrInvalidTransaction{Field: "timestamp", Reason: "timestamp is required"}
	}
	if t.amounts.IsZero() {
		return &ErrInvalidTransaction{Field: "amounts", Reason: "amounts cannot all be zero"}
	}

	// Sign must agree with the direction of the movement
	for name, v := range map[string]int64{
		"metal":     t.amounts.Metal,
		"crystal":   t.amounts.Crystal,
		"deuterium": t.amounts.Deuterium,
	} {
		if t.transactionType.IsDebit() && v > 0 {
			return &ErrInvalidTransaction{Field: name, Reason: "charge amounts must not be positive"}
		}
		if !t.transactionType.IsDebit() && v < 0 {
			return &ErrInvalidTransaction{Field: name, Reason: "credit amounts must not be negative"}
		}
	}
	return nil
}

// Getters (all fields are immutable)

func (t *Transaction) ID() TransactionID {
	return t.id
}

func (t *Transaction) PlayerKey() shared.PlayerKey {
	return t.playerKey
}

func (t *Transaction) Timestamp() time.Time {
	return t.timestamp
}

func (t *Transaction) TransactionType() TransactionType {
	return t.transactionType
}

func (t *Transaction) Category() Category {
	return t.category
}

func (t *Transaction) Amounts() rules.Cost {
	return t.amounts
}

func (t *Transaction) Description() string {
	return t.description
}

func (t *Transaction) RelatedKind() string {
	return t.relatedKind
}

func (t *Transaction) RelatedAmount() int {
	return t.relatedAmount
}

// IsIncome returns true if the transaction added resources
func (t *Transaction) IsIncome() bool {
	return !t.transactionType.IsDebit()
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, type=%s, metal=%d, crystal=%d, deuterium=%d]",
		t.id, t.transactionType, t.amounts.Metal, t.amounts.Crystal, t.amounts.Deuterium)
}
