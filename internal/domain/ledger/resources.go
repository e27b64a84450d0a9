package ledger

import (
	"math"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// DefaultAccrualDebounce is the minimum elapsed time before an accrual applies
const DefaultAccrualDebounce = 36 * time.Second

// Rates are the hourly production rates and the energy budget,
// recomputed from facility levels before every accrual
type Rates struct {
	Metal     float64
	Crystal   float64
	Deuterium float64
	Energy    EnergyBalance
}

// Defaults seeds a newly referenced player
type Defaults struct {
	Stock    shared.ResourceAmounts
	Capacity shared.ResourceAmounts
	Rates    Rates
}

// StandardDefaults are the starting values of a new colony
func StandardDefaults() Defaults {
	return Defaults{
		Stock:    shared.ResourceAmounts{Metal: 500, Crystal: 500, Deuterium: 0},
		Capacity: shared.ResourceAmounts{Metal: 10000, Crystal: 10000, Deuterium: 10000},
		Rates:    Rates{Metal: 30, Crystal: 15, Deuterium: 0},
	}
}

// PlayerResources is the per-player resource ledger.
// Invariant: 0 <= stock; accrual never pushes a stock above its capacity.
type PlayerResources struct {
	playerKey  shared.PlayerKey
	stock      shared.ResourceAmounts
	capacity   shared.ResourceAmounts
	rates      Rates
	lastUpdate time.Time
}

// NewPlayerResources creates a ledger with default stock, stamped at now
func NewPlayerResources(playerKey shared.PlayerKey, defaults Defaults, now time.Time) *PlayerResources {
	return &PlayerResources{
		playerKey:  playerKey,
		stock:      defaults.Stock,
		capacity:   defaults.Capacity,
		rates:      defaults.Rates,
		lastUpdate: now,
	}
}

// ReconstructPlayerResources rebuilds a ledger from persistence
func ReconstructPlayerResources(
	playerKey shared.PlayerKey,
	stock shared.ResourceAmounts,
	capacity shared.ResourceAmounts,
	rates Rates,
	lastUpdate time.Time,
) *PlayerResources {
	return &PlayerResources{
		playerKey:  playerKey,
		stock:      stock,
		capacity:   capacity,
		rates:      rates,
		lastUpdate: lastUpdate,
	}
}

func (r *PlayerResources) PlayerKey() shared.PlayerKey      { return r.playerKey }
func (r *PlayerResources) Stock() shared.ResourceAmounts    { return r.stock }
func (r *PlayerResources) Capacity() shared.ResourceAmounts { return r.capacity }
func (r *PlayerResources) Rates() Rates                     { return r.rates }
func (r *PlayerResources) LastUpdate() time.Time            { return r.lastUpdate }

// EnergyState classifies the current power budget
func (r *PlayerResources) EnergyState() EnergyState {
	return r.rates.Energy.State()
}

// SetRates replaces the production snapshot; called by the production aggregator
func (r *PlayerResources) SetRates(rates Rates) {
	r.rates = rates
}

// Accrue adds production since lastUpdate, throttled by the energy ratio and
// clamped to capacity. Returns false (and changes nothing) when less than
// debounce has elapsed, including when now is before lastUpdate.
func (r *PlayerResources) Accrue(now time.Time, debounce time.Duration) bool {
	elapsed := now.Sub(r.lastUpdate)
	if elapsed < debounce || elapsed <= 0 {
		return false
	}

	hours := elapsed.Seconds() / 3600
	ratio := r.rates.Energy.Ratio()

	r.stock.Metal = accrueOne(r.stock.Metal, r.rates.Metal*hours*ratio, r.capacity.Metal)
	r.stock.Crystal = accrueOne(r.stock.Crystal, r.rates.Crystal*hours*ratio, r.capacity.Crystal)
	r.stock.Deuterium = accrueOne(r.stock.Deuterium, r.rates.Deuterium*hours*ratio, r.capacity.Deuterium)
	r.lastUpdate = now
	return true
}

// accrueOne never lowers a stock, even one already above a reduced capacity
func accrueOne(current, delta, capacity float64) float64 {
	if delta <= 0 {
		return current
	}
	return math.Max(current, math.Min(current+delta, capacity))
}

// CanAfford reports whether every commodity of cost is covered by stock
func (r *PlayerResources) CanAfford(cost rules.Cost) bool {
	return float64(cost.Metal) <= r.stock.Metal &&
		float64(cost.Crystal) <= r.stock.Crystal &&
		float64(cost.Deuterium) <= r.stock.Deuterium
}

// Deduct subtracts cost, rejecting (never clamping) anything the stock cannot cover
func (r *PlayerResources) Deduct(cost rules.Cost) error {
	if !r.CanAfford(cost) {
		return shared.NewInsufficientResourcesError(r.playerKey.String(), cost.Amounts(), r.stock)
	}
	r.stock.Metal -= float64(cost.Metal)
	r.stock.Crystal -= float64(cost.Crystal)
	r.stock.Deuterium -= float64(cost.Deuterium)
	return nil
}

// Credit adds amounts clamped to capacity. Negative components are ignored.
func (r *PlayerResources) Credit(amounts rules.Cost) {
	r.stock.Metal = accrueOne(r.stock.Metal, float64(amounts.Metal), r.capacity.Metal)
	r.stock.Crystal = accrueOne(r.stock.Crystal, float64(amounts.Crystal), r.capacity.Crystal)
	r.stock.Deuterium = accrueOne(r.stock.Deuterium, float64(amounts.Deuterium), r.capacity.Deuterium)
}
