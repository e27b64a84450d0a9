package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/adapters/persistence"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/test/helpers"
)

func seedTransactions(t *testing.T, repo *persistence.GormTransactionRepository, key shared.PlayerKey) []*ledger.Transaction {
	t.Helper()

	charge, err := ledger.BuildCharge(key, epoch, rules.MetalMine, 1, rules.Cost{Metal: 60, Crystal: 15})
	require.NoError(t, err)
	refund, err := ledger.BuildRefund(key, epoch.Add(time.Minute), rules.MetalMine, 1, rules.Cost{Metal: 30, Crystal: 7})
	require.NoError(t, err)
	rockets, err := ledger.BuildCharge(key, epoch.Add(2*time.Minute), rules.RocketLauncher, 5, rules.Cost{Metal: 10000})
	require.NoError(t, err)
	grant, err := ledger.AdminGrant(key, epoch.Add(3*time.Minute), rules.Cost{Deuterium: 1000}, "")
	require.NoError(t, err)

	all := []*ledger.Transaction{charge, refund, rockets, grant}
	for _, tx := range all {
		require.NoError(t, repo.Create(context.Background(), tx))
	}
	return all
}

func TestTransactionRepository_CreateAndFindByID(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	key := shared.MustNewPlayerKey("player-1")
	seeded := seedTransactions(t, repo, key)

	// Act
	found, err := repo.FindByID(context.Background(), seeded[0].ID(), key)

	// Assert
	require.NoError(t, err)
	assert.True(t, seeded[0].ID().Equals(found.ID()))
	assert.Equal(t, ledger.TransactionTypeBuildCharge, found.TransactionType())
	assert.Equal(t, ledger.CategoryFacilities, found.Category())
	assert.Equal(t, rules.Cost{Metal: -60, Crystal: -15}, found.Amounts())
	assert.Equal(t, "metal_mine", found.RelatedKind())
	assert.Equal(t, 1, found.RelatedAmount())
	assert.True(t, epoch.Equal(found.Timestamp()))
}

func TestTransactionRepository_FindByIDScopedToPlayer(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	seeded := seedTransactions(t, repo, shared.MustNewPlayerKey("player-1"))

	// Act
	_, err := repo.FindByID(context.Background(), seeded[0].ID(), shared.MustNewPlayerKey("player-2"))

	// Assert
	var notFound *ledger.ErrTransactionNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "player-2", notFound.PlayerKey)
}

func TestTransactionRepository_FindByPlayerFilters(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	key := shared.MustNewPlayerKey("player-1")
	seedTransactions(t, repo, key)
	seedTransactions(t, repo, shared.MustNewPlayerKey("someone-else"))
	ctx := context.Background()

	charge := ledger.TransactionTypeBuildCharge
	defense := ledger.CategoryDefense
	mine := "metal_mine"
	start := epoch.Add(90 * time.Second)

	tests := []struct {
		name string
		opts ledger.QueryOptions
		want int
	}{
		{"no filters, no limit", ledger.QueryOptions{}, 4},
		{"default limit", ledger.DefaultQueryOptions(), 4},
		{"by type", ledger.QueryOptions{TransactionType: &charge}, 2},
		{"by category", ledger.QueryOptions{Category: &defense}, 1},
		{"by related kind", ledger.QueryOptions{RelatedKind: &mine}, 2},
		{"by start date", ledger.QueryOptions{StartDate: &start}, 2},
		{"paged", ledger.QueryOptions{Limit: 2, Offset: 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			found, err := repo.FindByPlayer(ctx, key, tt.opts)
			require.NoError(t, err)
			count, err := repo.CountByPlayer(ctx, key, ledger.QueryOptions{
				Category:        tt.opts.Category,
				TransactionType: tt.opts.TransactionType,
				RelatedKind:     tt.opts.RelatedKind,
				StartDate:       tt.opts.StartDate,
			})
			require.NoError(t, err)

			// Assert
			assert.Len(t, found, tt.want)
			if tt.opts.Limit == 0 {
				assert.Equal(t, tt.want, count)
			}
		})
	}
}

func TestTransactionRepository_FindByPlayerOrdering(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	key := shared.MustNewPlayerKey("player-1")
	seedTransactions(t, repo, key)

	// Act
	newest, err := repo.FindByPlayer(context.Background(), key, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	oldest, err := repo.FindByPlayer(context.Background(), key, ledger.QueryOptions{OrderBy: "timestamp ASC"})
	require.NoError(t, err)

	// Assert
	require.Len(t, newest, 4)
	require.Len(t, oldest, 4)
	assert.Equal(t, ledger.TransactionTypeAdminGrant, newest[0].TransactionType())
	assert.Equal(t, ledger.TransactionTypeBuildCharge, oldest[0].TransactionType())
	assert.Equal(t, "metal_mine", oldest[0].RelatedKind())
}
