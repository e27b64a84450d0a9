package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/application/colony/queries"
	"github.com/andrescamacho/colony-engine/test/helpers"
)

func startBuild(t *testing.T, f *helpers.EconomyFixture, trackName, kind string) {
	t.Helper()
	_, err := commands.NewStartBuildHandler(f.Executor).Handle(context.Background(), &commands.StartBuildCommand{
		PlayerKey: "player-1", Track: trackName, Kind: kind,
	})
	require.NoError(t, err)
}

func TestGetResources_CompletesDueBuildsAndAccrues(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	startBuild(t, f, "facilities", "solar_plant")
	f.Clock.Advance(time.Hour)
	handler := queries.NewGetResourcesHandler(f.Executor)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetResourcesQuery{PlayerKey: "player-1"})

	// Assert
	require.NoError(t, err)
	resources := resp.(*queries.GetResourcesResponse).Resources
	assert.Equal(t, int64(22), resources.EnergyProduction)
	assert.Equal(t, "surplus", resources.EnergyState)
	assert.Greater(t, resources.Metal, 425.0)
	assert.True(t, helpers.Epoch.Add(time.Hour).Equal(resources.LastUpdate))
}

func TestGetResources_UnknownPlayerGetsDefaults(t *testing.T) {
	f := helpers.NewEconomyFixture(t)

	resp, err := queries.NewGetResourcesHandler(f.Executor).Handle(context.Background(), &queries.GetResourcesQuery{PlayerKey: "new-player"})

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.(*queries.GetResourcesResponse).Resources.Metal)
}

func TestGetTrack_ListsEveryKindWithQuotes(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	startBuild(t, f, "facilities", "metal_mine")
	handler := queries.NewGetTrackHandler(f.Executor)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetTrackQuery{PlayerKey: "player-1", Track: "facilities"})

	// Assert
	require.NoError(t, err)
	listing := resp.(*queries.GetTrackResponse)
	assert.Equal(t, "facilities", listing.Track)
	require.Len(t, listing.Entries, 10)

	mine := listing.Entries[0]
	assert.Equal(t, "metal_mine", mine.Kind)
	assert.Equal(t, 1, mine.InProgressAmount)
	assert.True(t, mine.RequirementsMet)

	for _, entry := range listing.Entries {
		assert.True(t, entry.RequirementsMet, entry.Kind)
		assert.Empty(t, entry.UnmetRequirement, entry.Kind)
	}
	assert.Nil(t, listing.ActiveResearch)
}

func TestGetTrack_ReportsActiveResearch(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	_, err := commands.NewGrantResourcesHandler(f.Executor).Handle(context.Background(), &commands.GrantResourcesCommand{
		PlayerKey: "player-1", Metal: 2000, Crystal: 2000, Deuterium: 2000,
	})
	require.NoError(t, err)
	startBuild(t, f, "facilities", "research_lab")
	f.Clock.Advance(time.Hour)
	startBuild(t, f, "research", "energy_tech")

	// Act
	resp, err := queries.NewGetTrackHandler(f.Executor).Handle(context.Background(), &queries.GetTrackQuery{PlayerKey: "player-1", Track: "research"})

	// Assert
	require.NoError(t, err)
	listing := resp.(*queries.GetTrackResponse)
	require.NotNil(t, listing.ActiveResearch)
	assert.Equal(t, "energy_tech", listing.ActiveResearch.Kind)
	assert.Equal(t, 1, listing.Support.ResearchLab)
}

func TestGetTrack_RejectsUnknownTrack(t *testing.T) {
	f := helpers.NewEconomyFixture(t)

	_, err := queries.NewGetTrackHandler(f.Executor).Handle(context.Background(), &queries.GetTrackQuery{PlayerKey: "player-1", Track: "ships"})

	assert.Error(t, err)
}
