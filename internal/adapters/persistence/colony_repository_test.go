package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/adapters/persistence"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
	"github.com/andrescamacho/colony-engine/test/helpers"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestColonyRepository_SaveAndFindResources(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	key := shared.MustNewPlayerKey("0xABC")

	resources := ledger.NewPlayerResources(key, ledger.StandardDefaults(), epoch)
	resources.SetRates(ledger.Rates{
		Metal:   63,
		Crystal: 15,
		Energy:  ledger.EnergyBalance{Production: 22, Consumption: 11},
	})

	// Act
	err := repo.SaveResources(context.Background(), resources)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindResources(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", found.PlayerKey().Value())
	assert.Equal(t, resources.Stock(), found.Stock())
	assert.Equal(t, resources.Capacity(), found.Capacity())
	assert.Equal(t, resources.Rates(), found.Rates())
	assert.True(t, epoch.Equal(found.LastUpdate()))
}

func TestColonyRepository_SaveResourcesUpserts(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	key := shared.MustNewPlayerKey("player-1")

	resources := ledger.NewPlayerResources(key, ledger.StandardDefaults(), epoch)
	require.NoError(t, repo.SaveResources(context.Background(), resources))

	require.NoError(t, resources.Deduct(rules.Cost{Metal: 60, Crystal: 15}))

	// Act
	err := repo.SaveResources(context.Background(), resources)

	// Assert
	require.NoError(t, err)
	found, err := repo.FindResources(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 440.0, found.Stock().Metal)
	assert.Equal(t, 485.0, found.Stock().Crystal)
}

func TestColonyRepository_CreateResourcesKeepsExistingRow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	key := shared.MustNewPlayerKey("player-1")
	ctx := context.Background()

	first := ledger.NewPlayerResources(key, ledger.StandardDefaults(), epoch)
	require.NoError(t, first.Deduct(rules.Cost{Metal: 60, Crystal: 15}))
	created, err := repo.CreateResources(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	// Act
	created, err = repo.CreateResources(ctx, ledger.NewPlayerResources(key, ledger.StandardDefaults(), epoch))

	// Assert
	require.NoError(t, err)
	assert.False(t, created)
	found, err := repo.FindResources(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 440.0, found.Stock().Metal)
	assert.Equal(t, 485.0, found.Stock().Crystal)
}

func TestColonyRepository_FindResourcesNotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)

	// Act
	_, err := repo.FindResources(context.Background(), shared.MustNewPlayerKey("nobody"))

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, colony.ErrNotFound))

	exists, err := repo.Exists(context.Background(), shared.MustNewPlayerKey("nobody"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestColonyRepository_SaveAndFindRecords(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	key := shared.MustNewPlayerKey("player-1")

	mine := track.NewRecord(rules.MetalMine)
	require.NoError(t, mine.Start(1, epoch, time.Minute, rules.Cost{Metal: 60, Crystal: 15}))
	shipyard, err := track.ReconstructRecord(rules.Shipyard, 2, 0, nil, nil, rules.Cost{})
	require.NoError(t, err)
	rockets := track.NewRecord(rules.RocketLauncher)

	// Act
	err = repo.SaveRecords(context.Background(), key, []*track.Record{mine, shipyard, rockets})

	// Assert
	require.NoError(t, err)

	records, err := repo.FindRecords(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, records, 3)

	set := track.NewSetFromRecords(records)
	found, ok := set.Get(rules.MetalMine)
	require.True(t, ok)
	assert.Equal(t, 1, found.InProgressAmount())
	require.NotNil(t, found.CompletesAt())
	assert.True(t, epoch.Add(time.Minute).Equal(*found.CompletesAt()))
	assert.Equal(t, rules.Cost{Metal: 60, Crystal: 15}, found.ChargedCost())

	assert.Equal(t, 2, set.LevelOf(rules.Shipyard))
	assert.Equal(t, 0, set.LevelOf(rules.RocketLauncher))
}

func TestColonyRepository_SaveRecordsUpdatesExistingRows(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	key := shared.MustNewPlayerKey("player-1")

	mine := track.NewRecord(rules.MetalMine)
	require.NoError(t, mine.Start(1, epoch, time.Minute, rules.Cost{Metal: 60}))
	require.NoError(t, repo.SaveRecords(context.Background(), key, []*track.Record{mine}))

	_, resolved := mine.Resolve(epoch.Add(time.Minute))
	require.True(t, resolved)

	// Act
	err := repo.SaveRecords(context.Background(), key, []*track.Record{mine})

	// Assert
	require.NoError(t, err)
	records, err := repo.FindRecords(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Count())
	assert.False(t, records[0].IsInProgress())
	assert.Nil(t, records[0].CompletesAt())
	assert.True(t, records[0].ChargedCost().IsZero())
}

func TestColonyRepository_ListDueBuilds(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormColonyRepository(db)
	ctx := context.Background()

	due := shared.MustNewPlayerKey("due-player")
	later := shared.MustNewPlayerKey("later-player")
	idle := shared.MustNewPlayerKey("idle-player")

	dueMine := track.NewRecord(rules.MetalMine)
	require.NoError(t, dueMine.Start(1, epoch, time.Minute, rules.Cost{}))
	dueLab := track.NewRecord(rules.ResearchLab)
	require.NoError(t, dueLab.Start(1, epoch, 30*time.Second, rules.Cost{}))
	require.NoError(t, repo.SaveRecords(ctx, due, []*track.Record{dueMine, dueLab}))

	laterMine := track.NewRecord(rules.MetalMine)
	require.NoError(t, laterMine.Start(1, epoch, time.Hour, rules.Cost{}))
	require.NoError(t, repo.SaveRecords(ctx, later, []*track.Record{laterMine}))

	require.NoError(t, repo.SaveRecords(ctx, idle, []*track.Record{track.NewRecord(rules.MetalMine)}))

	// Act
	keys, err := repo.ListDueBuilds(ctx, epoch.Add(2*time.Minute), 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "due-player", keys[0].Value())

	keys, err = repo.ListDueBuilds(ctx, epoch.Add(2*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
