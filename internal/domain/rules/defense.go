package rules

import (
	"math"
	"time"
)

// DefenseKind enumerates the stationary defensive units
type DefenseKind string

const (
	RocketLauncher        DefenseKind = "rocket_launcher"
	LightLaser            DefenseKind = "light_laser"
	HeavyLaser            DefenseKind = "heavy_laser"
	GaussCannon           DefenseKind = "gauss_cannon"
	IonCannon             DefenseKind = "ion_cannon"
	PlasmaTurret          DefenseKind = "plasma_turret"
	SmallShieldDome       DefenseKind = "small_shield_dome"
	LargeShieldDome       DefenseKind = "large_shield_dome"
	AntiBallisticMissile  DefenseKind = "anti_ballistic_missile"
	InterplanetaryMissile DefenseKind = "interplanetary_missile"
)

const shipyardReductionPerLvl = 0.1

// DefenseStats are static combat values, consumed by the combat subsystem
type DefenseStats struct {
	Attack int64 `yaml:"attack"`
	Shield int64 `yaml:"shield"`
	Hull   int64 `yaml:"hull"`
}

type defenseRule struct {
	baseCost     Cost
	baseTime     float64
	stats        DefenseStats
	unique       bool
	requirements []Requirement
}

var defenseOrder = []DefenseKind{
	RocketLauncher, LightLaser, HeavyLaser, GaussCannon, IonCannon, PlasmaTurret,
	SmallShieldDome, LargeShieldDome, AntiBallisticMissile, InterplanetaryMissile,
}

var defenseRules = map[DefenseKind]defenseRule{
	RocketLauncher: {
		baseCost:     Cost{Metal: 2000},
		baseTime:     30,
		stats:        DefenseStats{Attack: 80, Shield: 20, Hull: 2000},
		requirements: []Requirement{facility(Shipyard, 1)},
	},
	LightLaser: {
		baseCost: Cost{Metal: 1500, Crystal: 500},
		baseTime: 45,
		stats:    DefenseStats{Attack: 100, Shield: 25, Hull: 2000},
		requirements: []Requirement{
			facility(Shipyard, 1), tech(EnergyTech, 1), tech(LaserTech, 3),
		},
	},
	HeavyLaser: {
		baseCost: Cost{Metal: 6000, Crystal: 2000},
		baseTime: 120,
		stats:    DefenseStats{Attack: 250, Shield: 100, Hull: 8000},
		requirements: []Requirement{
			facility(Shipyard, 1), tech(EnergyTech, 3), tech(LaserTech, 6),
		},
	},
	GaussCannon: {
		baseCost: Cost{Metal: 20000, Crystal: 15000, Deuterium: 2000},
		baseTime: 300,
		stats:    DefenseStats{Attack: 1100, Shield: 200, Hull: 35000},
		requirements: []Requirement{
			facility(Shipyard, 6), tech(EnergyTech, 6), tech(WeaponsTech, 3), tech(ShieldingTech, 1),
		},
	},
	IonCannon: {
		baseCost:     Cost{Metal: 5000, Crystal: 3000},
		baseTime:     180,
		stats:        DefenseStats{Attack: 150, Shield: 500, Hull: 8000},
		requirements: []Requirement{facility(Shipyard, 4), tech(IonTech, 4)},
	},
	PlasmaTurret: {
		baseCost:     Cost{Metal: 50000, Crystal: 50000, Deuterium: 30000},
		baseTime:     600,
		stats:        DefenseStats{Attack: 3000, Shield: 300, Hull: 100000},
		requirements: []Requirement{facility(Shipyard, 8), tech(PlasmaTech, 7)},
	},
	SmallShieldDome: {
		baseCost:     Cost{Metal: 10000, Crystal: 10000},
		baseTime:     900,
		stats:        DefenseStats{Attack: 1, Shield: 2000, Hull: 20000},
		unique:       true,
		requirements: []Requirement{facility(Shipyard, 1), tech(ShieldingTech, 2)},
	},
	LargeShieldDome: {
		baseCost:     Cost{Metal: 50000, Crystal: 50000},
		baseTime:     1800,
		stats:        DefenseStats{Attack: 1, Shield: 10000, Hull: 100000},
		unique:       true,
		requirements: []Requirement{facility(Shipyard, 6), tech(ShieldingTech, 6)},
	},
	AntiBallisticMissile: {
		baseCost:     Cost{Metal: 8000, Deuterium: 2000},
		baseTime:     240,
		stats:        DefenseStats{Attack: 1, Shield: 1, Hull: 8000},
		requirements: []Requirement{facility(Shipyard, 1), facility(MissileSilo, 2)},
	},
	InterplanetaryMissile: {
		baseCost: Cost{Metal: 12500, Crystal: 2500, Deuterium: 10000},
		baseTime: 480,
		stats:    DefenseStats{Attack: 12000, Shield: 1, Hull: 15000},
		requirements: []Requirement{
			facility(Shipyard, 1), facility(MissileSilo, 4), tech(ImpulseDrive, 1),
		},
	},
}

// AllDefenseKinds returns every defense unit in catalog order
func AllDefenseKinds() []DefenseKind {
	out := make([]DefenseKind, len(defenseOrder))
	copy(out, defenseOrder)
	return out
}

// ParseDefenseKind resolves a defense name; unknown names are rejected
func ParseDefenseKind(name string) (DefenseKind, error) {
	kind := DefenseKind(normalizeKindName(name))
	if _, ok := defenseRules[kind]; !ok {
		return "", unknownKind(TrackDefense, name)
	}
	return kind, nil
}

func (k DefenseKind) Track() Track   { return TrackDefense }
func (k DefenseKind) String() string { return string(k) }

// BaseCost is the cost of a single unit
func (k DefenseKind) BaseCost() Cost { return defenseRules[k].baseCost }

func (k DefenseKind) BaseTime() time.Duration {
	return time.Duration(defenseRules[k].baseTime) * time.Second
}

func (k DefenseKind) Requirements() []Requirement {
	return defenseRules[k].requirements
}

// Stats returns the static attack/shield/hull of one unit
func (k DefenseKind) Stats() DefenseStats { return defenseRules[k].stats }

// IsUnique reports kinds limited to one per colony (shield domes)
func (k DefenseKind) IsUnique() bool { return defenseRules[k].unique }

// DefenseCost is base × quantity. Defense units have no levels.
func DefenseCost(kind DefenseKind, quantity int) Cost {
	return kind.BaseCost().Times(quantity)
}

// DefenseDuration is floor(baseTime × qty × 1/(1+0.1·shipyard) × 0.5^nanite) seconds
func DefenseDuration(kind DefenseKind, quantity, shipyardLevel, naniteLevel int) time.Duration {
	seconds := defenseRules[kind].baseTime *
		float64(quantity) *
		linearReduction(shipyardReductionPerLvl, shipyardLevel) *
		math.Pow(naniteReductionPerLevel, float64(naniteLevel))
	return time.Duration(floorSeconds(seconds)) * time.Second
}

// DefensePower is Σ attack × quantity over a set of defense counts
func DefensePower(quantities map[DefenseKind]int) int64 {
	var total int64
	for kind, qty := range quantities {
		total += kind.Stats().Attack * int64(qty)
	}
	return total
}
