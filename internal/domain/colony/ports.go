package colony

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// ErrNotFound is returned by Repository when a player has no resource ledger yet
var ErrNotFound = errors.New("colony not found")

// Repository persists the two halves of a colony: its resource ledger and its track records
type Repository interface {
	// FindResources loads the ledger, locking it for the rest of the transaction where supported
	FindResources(ctx context.Context, playerKey shared.PlayerKey) (*ledger.PlayerResources, error)

	// FindRecords loads every track record of the player
	FindRecords(ctx context.Context, playerKey shared.PlayerKey) ([]*track.Record, error)

	// Exists reports whether a ledger row exists
	Exists(ctx context.Context, playerKey shared.PlayerKey) (bool, error)

	// CreateResources inserts the ledger row unless one already exists.
	// created is false when another writer inserted the row first.
	CreateResources(ctx context.Context, resources *ledger.PlayerResources) (created bool, err error)

	// SaveResources upserts the ledger row
	SaveResources(ctx context.Context, resources *ledger.PlayerResources) error

	// SaveRecords upserts the given records, keyed by (player, track, kind)
	SaveRecords(ctx context.Context, playerKey shared.PlayerKey, records []*track.Record) error

	// ListDueBuilds returns players owning at least one build with completesAt <= now
	ListDueBuilds(ctx context.Context, now time.Time, limit int) ([]shared.PlayerKey, error)
}

// Tx gives transactional access to every repository
type Tx interface {
	Colonies() Repository
	Transactions() ledger.TransactionRepository
}

// UnitOfWork runs fn inside one atomic database transaction.
// If fn returns an error nothing fn wrote is committed.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
