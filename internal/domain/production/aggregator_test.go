package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/production"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

func TestAggregate_NoFacilitiesYieldsBaseRates(t *testing.T) {
	agg := production.NewAggregator(production.DefaultBaseRates())

	rates := agg.Aggregate(nil)

	assert.Equal(t, ledger.Rates{Metal: 30, Crystal: 15}, rates)
	assert.Equal(t, ledger.EnergyBalancedEmpty, rates.Energy.State())
}

func TestAggregate_MinesDrawEnergy(t *testing.T) {
	agg := production.NewAggregator(production.DefaultBaseRates())

	rates := agg.Aggregate(map[rules.FacilityKind]int{
		rules.MetalMine:       1,
		rules.CrystalRefinery: 2,
	})

	// metal 30 + 33, crystal 15 + floor(20*2*1.21)=48
	assert.Equal(t, 63.0, rates.Metal)
	assert.Equal(t, 63.0, rates.Crystal)
	assert.Equal(t, int64(0), rates.Energy.Production)
	assert.Equal(t, int64(11+24), rates.Energy.Consumption)
	assert.Equal(t, 0.0, rates.Energy.Ratio())
}

func TestAggregate_SolarCoversMine(t *testing.T) {
	agg := production.NewAggregator(production.DefaultBaseRates())

	rates := agg.Aggregate(map[rules.FacilityKind]int{
		rules.MetalMine:  1,
		rules.SolarPlant: 1,
	})

	assert.Equal(t, int64(22), rates.Energy.Production)
	assert.Equal(t, int64(11), rates.Energy.Consumption)
	assert.Equal(t, ledger.EnergySurplus, rates.Energy.State())
}

func TestAggregate_FusionFuelCountsAsConsumption(t *testing.T) {
	agg := production.NewAggregator(production.DefaultBaseRates())

	rates := agg.Aggregate(map[rules.FacilityKind]int{
		rules.FusionReactor: 1,
	})

	assert.Equal(t, int64(55), rates.Energy.Production)
	assert.Equal(t, int64(11), rates.Energy.Consumption)
	assert.Equal(t, 0.0, rates.Deuterium)
}

func TestApply_WritesIntoLedger(t *testing.T) {
	agg := production.NewAggregator(production.BaseRates{})
	resources := ledger.NewPlayerResources(mustKey(t), ledger.StandardDefaults(), epoch)

	agg.Apply(resources, map[rules.FacilityKind]int{rules.DeuteriumSynthesizer: 1})

	assert.Equal(t, 11.0, resources.Rates().Deuterium)
	assert.Equal(t, 0.0, resources.Rates().Metal)
}
