package ledger

import (
	"context"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	// Create persists a new transaction
	Create(ctx context.Context, transaction *Transaction) error

	// FindByID retrieves a transaction by its ID
	FindByID(ctx context.Context, id TransactionID, playerKey shared.PlayerKey) (*Transaction, error)

	// FindByPlayer retrieves transactions for a player with optional filtering
	FindByPlayer(ctx context.Context, playerKey shared.PlayerKey, opts QueryOptions) ([]*Transaction, error)

	// CountByPlayer returns the count of transactions matching the criteria
	CountByPlayer(ctx context.Context, playerKey shared.PlayerKey, opts QueryOptions) (int, error)
}

// QueryOptions defines filtering and pagination options for transaction queries
type QueryOptions struct {
	// Date range filtering
	StartDate *time.Time
	EndDate   *time.Time

	Category        *Category
	TransactionType *TransactionType

	// RelatedKind filters by the facility, technology or defense kind involved
	RelatedKind *string

	// Pagination
	Limit  int
	Offset int

	// Sorting
	OrderBy string // "timestamp ASC" or "timestamp DESC" (default DESC)
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		Offset:  0,
		OrderBy: "timestamp DESC",
	}
}
