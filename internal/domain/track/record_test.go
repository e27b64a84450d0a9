package track_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRecord_StartResolve(t *testing.T) {
	// Arrange
	r := track.NewRecord(rules.Shipyard)
	cost := rules.Cost{Metal: 400, Crystal: 200, Deuterium: 100}

	// Act
	require.NoError(t, r.Start(1, epoch, 4*time.Minute, cost))

	// Assert
	assert.Equal(t, track.StatusInProgress, r.Status())
	require.NotNil(t, r.CompletesAt())
	assert.Equal(t, epoch.Add(4*time.Minute), *r.CompletesAt())
	assert.Equal(t, cost, r.ChargedCost())
	assert.Equal(t, 4*time.Minute, r.Remaining(epoch))

	_, done := r.Resolve(epoch.Add(4*time.Minute - time.Second))
	assert.False(t, done, "not due yet")
	assert.Equal(t, 0, r.Count())

	c, done := r.Resolve(epoch.Add(4 * time.Minute))
	require.True(t, done)
	assert.Equal(t, 1, c.Amount)
	assert.Equal(t, 1, c.NewCount)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, track.StatusIdle, r.Status())
	assert.Nil(t, r.CompletesAt())
	assert.Nil(t, r.StartedAt())
}

func TestRecord_ResolveIsIdempotent(t *testing.T) {
	r := track.NewRecord(rules.RocketLauncher)
	require.NoError(t, r.Start(5, epoch, time.Minute, rules.Cost{Metal: 10000}))

	later := epoch.Add(time.Hour)
	_, first := r.Resolve(later)
	_, second := r.Resolve(later)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 5, r.Count())
}

func TestRecord_StartRejections(t *testing.T) {
	r := track.NewRecord(rules.MetalMine)

	assert.Error(t, r.Start(2, epoch, time.Minute, rules.Cost{}), "levelled kinds build one level")
	assert.Error(t, r.Start(0, epoch, time.Minute, rules.Cost{}))

	require.NoError(t, r.Start(1, epoch, time.Minute, rules.Cost{Metal: 60}))
	assert.Error(t, r.Start(1, epoch, time.Minute, rules.Cost{Metal: 60}), "already in progress")
}

func TestRecord_CancelRefundsHalfOfCharged(t *testing.T) {
	r := track.NewRecord(rules.LightLaser)
	charged := rules.DefenseCost(rules.LightLaser, 3)
	require.NoError(t, r.Start(3, epoch, time.Hour, charged))

	refund, amount, err := r.Cancel(0.5)

	require.NoError(t, err)
	assert.Equal(t, 3, amount)
	assert.Equal(t, rules.Cost{Metal: 2250, Crystal: 750}, refund)
	assert.Equal(t, 0, r.Count())
	assert.False(t, r.IsInProgress())

	_, _, err = r.Cancel(0.5)
	assert.Error(t, err)
}

func TestRecord_CancelFloorsOddAmounts(t *testing.T) {
	r := track.NewRecord(rules.MetalMine)
	require.NoError(t, r.Start(1, epoch, time.Hour, rules.Cost{Metal: 90, Crystal: 22, Deuterium: 1}))

	refund, _, err := r.Cancel(0.5)

	require.NoError(t, err)
	assert.Equal(t, rules.Cost{Metal: 45, Crystal: 11, Deuterium: 0}, refund)
}

func TestRecord_CancelWithoutStoredChargeRecomputes(t *testing.T) {
	completes := epoch.Add(time.Hour)
	r, err := track.ReconstructRecord(rules.MetalMine, 3, 1, &epoch, &completes, rules.Cost{})
	require.NoError(t, err)

	refund, _, err := r.Cancel(0.5)

	require.NoError(t, err)
	assert.Equal(t, rules.Cost{Metal: 101, Crystal: 25}, refund)
}

func TestReconstructRecord_EnforcesInvariant(t *testing.T) {
	_, err := track.ReconstructRecord(rules.Shipyard, 0, 1, nil, nil, rules.Cost{})
	assert.Error(t, err)

	at := epoch
	_, err = track.ReconstructRecord(rules.Shipyard, 0, 0, nil, &at, rules.Cost{})
	assert.Error(t, err)

	_, err = track.ReconstructRecord(rules.Shipyard, -1, 0, nil, nil, rules.Cost{})
	assert.Error(t, err)
}
