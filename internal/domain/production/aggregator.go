// Package production derives a colony's hourly rates from its facility levels.
package production

import (
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// BaseRates are the flat hourly outputs every colony has without any mine
type BaseRates struct {
	Metal     float64
	Crystal   float64
	Deuterium float64
}

// DefaultBaseRates matches the starting rates of a new colony
func DefaultBaseRates() BaseRates {
	return BaseRates{Metal: 30, Crystal: 15}
}

// Aggregator recomputes ledger rates from facility levels
type Aggregator struct {
	base BaseRates
}

func NewAggregator(base BaseRates) *Aggregator {
	return &Aggregator{base: base}
}

// Aggregate sums every facility's contribution on top of the base rates.
// Negative deuterium contributions (fusion fuel) count as energy consumption,
// as do the draws of mines, refineries and synthesizers.
func (a *Aggregator) Aggregate(levels map[rules.FacilityKind]int) ledger.Rates {
	rates := ledger.Rates{
		Metal:     a.base.Metal,
		Crystal:   a.base.Crystal,
		Deuterium: a.base.Deuterium,
	}

	for _, kind := range rules.AllFacilityKinds() {
		level := levels[kind]
		if level <= 0 {
			continue
		}

		out := rules.FacilityProduction(kind, level)
		rates.Metal += float64(out.Metal)
		rates.Crystal += float64(out.Crystal)
		if out.Deuterium >= 0 {
			rates.Deuterium += float64(out.Deuterium)
		} else {
			rates.Energy.Consumption += -out.Deuterium
		}
		rates.Energy.Production += out.Energy
		rates.Energy.Consumption += rules.FacilityEnergyDraw(kind, level)
	}

	return rates
}

// Apply recomputes rates and writes them into the ledger
func (a *Aggregator) Apply(resources *ledger.PlayerResources, levels map[rules.FacilityKind]int) {
	resources.SetRates(a.Aggregate(levels))
}
