package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newLedger(stock shared.ResourceAmounts, rates ledger.Rates) *ledger.PlayerResources {
	return ledger.ReconstructPlayerResources(
		shared.MustNewPlayerKey("alice"),
		stock,
		shared.ResourceAmounts{Metal: 10000, Crystal: 10000, Deuterium: 10000},
		rates,
		epoch,
	)
}

func TestAccrue_OneHourAtThirtyPerHour(t *testing.T) {
	// Arrange
	r := newLedger(
		shared.ResourceAmounts{Metal: 500, Crystal: 500},
		ledger.Rates{Metal: 30, Crystal: 15},
	)

	// Act
	applied := r.Accrue(epoch.Add(time.Hour), ledger.DefaultAccrualDebounce)

	// Assert
	require.True(t, applied)
	assert.Equal(t, 530.0, r.Stock().Metal)
	assert.Equal(t, 515.0, r.Stock().Crystal)
	assert.Equal(t, 0.0, r.Stock().Deuterium)
	assert.Equal(t, epoch.Add(time.Hour), r.LastUpdate())
}

func TestAccrue_DebounceMakesRepeatCallsNoOps(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 500}, ledger.Rates{Metal: 3600})

	require.True(t, r.Accrue(epoch.Add(time.Hour), ledger.DefaultAccrualDebounce))
	afterFirst := r.Stock()

	assert.False(t, r.Accrue(epoch.Add(time.Hour), ledger.DefaultAccrualDebounce))
	assert.False(t, r.Accrue(epoch.Add(time.Hour+35*time.Second), ledger.DefaultAccrualDebounce))
	assert.Equal(t, afterFirst, r.Stock())

	require.True(t, r.Accrue(epoch.Add(time.Hour+36*time.Second), ledger.DefaultAccrualDebounce))
	assert.Equal(t, afterFirst.Metal+36, r.Stock().Metal)
}

func TestAccrue_NeverMovesBackwards(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 500}, ledger.Rates{Metal: 30})

	assert.False(t, r.Accrue(epoch.Add(-time.Hour), 0))
	assert.Equal(t, 500.0, r.Stock().Metal)
	assert.Equal(t, epoch, r.LastUpdate())
}

func TestAccrue_ClampedToCapacity(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 9990}, ledger.Rates{Metal: 30})

	for i := 1; i <= 24; i++ {
		r.Accrue(epoch.Add(time.Duration(i)*time.Hour), ledger.DefaultAccrualDebounce)
		assert.LessOrEqual(t, r.Stock().Metal, r.Capacity().Metal)
	}
	assert.Equal(t, 10000.0, r.Stock().Metal)
}

func TestAccrue_StockAboveCapacityIsNotReduced(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 12000}, ledger.Rates{Metal: 30})

	r.Accrue(epoch.Add(time.Hour), 0)

	assert.Equal(t, 12000.0, r.Stock().Metal)
}

func TestAccrue_EnergyStarvationHaltsProduction(t *testing.T) {
	r := newLedger(
		shared.ResourceAmounts{Metal: 500, Crystal: 500, Deuterium: 100},
		ledger.Rates{Metal: 30, Crystal: 15, Deuterium: 10, Energy: ledger.EnergyBalance{Production: 0, Consumption: 10}},
	)
	require.Equal(t, ledger.EnergyDeficit, r.EnergyState())

	r.Accrue(epoch.Add(time.Hour), ledger.DefaultAccrualDebounce)

	assert.Equal(t, shared.ResourceAmounts{Metal: 500, Crystal: 500, Deuterium: 100}, r.Stock())
}

func TestAccrue_PartialEnergyThrottles(t *testing.T) {
	r := newLedger(
		shared.ResourceAmounts{},
		ledger.Rates{Metal: 100, Energy: ledger.EnergyBalance{Production: 20, Consumption: 40}},
	)

	r.Accrue(epoch.Add(time.Hour), 0)

	assert.InDelta(t, 50.0, r.Stock().Metal, 1e-9)
}

func TestEnergyBalance_States(t *testing.T) {
	tests := []struct {
		name    string
		balance ledger.EnergyBalance
		state   ledger.EnergyState
		ratio   float64
	}{
		{"balanced empty", ledger.EnergyBalance{}, ledger.EnergyBalancedEmpty, 1},
		{"surplus", ledger.EnergyBalance{Production: 50, Consumption: 20}, ledger.EnergySurplus, 1},
		{"exactly covered", ledger.EnergyBalance{Production: 20, Consumption: 20}, ledger.EnergySurplus, 1},
		{"production without draw", ledger.EnergyBalance{Production: 20}, ledger.EnergySurplus, 1},
		{"deficit", ledger.EnergyBalance{Production: 10, Consumption: 40}, ledger.EnergyDeficit, 0.25},
		{"starvation", ledger.EnergyBalance{Consumption: 10}, ledger.EnergyDeficit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.state, tt.balance.State())
			assert.Equal(t, tt.ratio, tt.balance.Ratio())
		})
	}
}

func TestDeduct_RejectsWithoutClamping(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 100, Crystal: 100}, ledger.Rates{})

	err := r.Deduct(rules.Cost{Metal: 60, Crystal: 150})

	require.Error(t, err)
	var insufficient *shared.InsufficientResourcesError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 150.0, insufficient.Required.Crystal)
	assert.Equal(t, 100.0, insufficient.Available.Crystal)
	assert.Equal(t, shared.ResourceAmounts{Metal: 100, Crystal: 100}, r.Stock())
}

func TestDeduct_ExactStockReachesZero(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 60, Crystal: 15}, ledger.Rates{})

	require.True(t, r.CanAfford(rules.Cost{Metal: 60, Crystal: 15}))
	require.NoError(t, r.Deduct(rules.Cost{Metal: 60, Crystal: 15}))

	assert.Equal(t, shared.ResourceAmounts{}, r.Stock())
}

func TestCredit_ClampedToCapacity(t *testing.T) {
	r := newLedger(shared.ResourceAmounts{Metal: 9900, Crystal: 10}, ledger.Rates{})

	r.Credit(rules.Cost{Metal: 500, Crystal: 20})

	assert.Equal(t, 10000.0, r.Stock().Metal)
	assert.Equal(t, 30.0, r.Stock().Crystal)
}

func TestNewPlayerResources_StandardDefaults(t *testing.T) {
	r := ledger.NewPlayerResources(shared.MustNewPlayerKey("bob"), ledger.StandardDefaults(), epoch)

	assert.Equal(t, shared.ResourceAmounts{Metal: 500, Crystal: 500}, r.Stock())
	assert.Equal(t, 30.0, r.Rates().Metal)
	assert.Equal(t, 15.0, r.Rates().Crystal)
	assert.Equal(t, epoch, r.LastUpdate())
}
