package rules

import (
	"math"
	"time"
)

// FacilityKind enumerates the colony's buildings
type FacilityKind string

const (
	MetalMine            FacilityKind = "metal_mine"
	CrystalRefinery      FacilityKind = "crystal_refinery"
	DeuteriumSynthesizer FacilityKind = "deuterium_synthesizer"
	SolarPlant           FacilityKind = "solar_plant"
	FusionReactor        FacilityKind = "fusion_reactor"
	RoboticsFactory      FacilityKind = "robotics_factory"
	Shipyard             FacilityKind = "shipyard"
	ResearchLab          FacilityKind = "research_lab"
	MissileSilo          FacilityKind = "missile_silo"
	NaniteFactory        FacilityKind = "nanite_factory"
)

const (
	facilityCostGrowth      = 1.5
	facilityTimeGrowth      = 1.4
	productionGrowth        = 1.1
	mineEnergyDrawPerLevel  = 10.0
	roboticsReductionPerLvl = 1.0
	naniteReductionPerLevel = 0.5
)

// Production is an hourly contribution of one facility. Negative values are draws.
type Production struct {
	Metal     int64 `yaml:"metal,omitempty"`
	Crystal   int64 `yaml:"crystal,omitempty"`
	Deuterium int64 `yaml:"deuterium,omitempty"`
	Energy    int64 `yaml:"energy,omitempty"`
}

type facilityRule struct {
	baseCost    Cost
	baseTime    float64
	production  Production
	drawsEnergy bool
}

var facilityOrder = []FacilityKind{
	MetalMine, CrystalRefinery, DeuteriumSynthesizer, SolarPlant, FusionReactor,
	RoboticsFactory, Shipyard, ResearchLab, MissileSilo, NaniteFactory,
}

var facilityRules = map[FacilityKind]facilityRule{
	MetalMine: {
		baseCost:    Cost{Metal: 60, Crystal: 15},
		baseTime:    60,
		production:  Production{Metal: 30},
		drawsEnergy: true,
	},
	CrystalRefinery: {
		baseCost:    Cost{Metal: 48, Crystal: 24},
		baseTime:    90,
		production:  Production{Crystal: 20},
		drawsEnergy: true,
	},
	DeuteriumSynthesizer: {
		baseCost:    Cost{Metal: 225, Crystal: 75},
		baseTime:    120,
		production:  Production{Deuterium: 10},
		drawsEnergy: true,
	},
	SolarPlant: {
		baseCost:   Cost{Metal: 75, Crystal: 30},
		baseTime:   60,
		production: Production{Energy: 20},
	},
	FusionReactor: {
		baseCost:   Cost{Metal: 900, Crystal: 360, Deuterium: 180},
		baseTime:   300,
		production: Production{Energy: 50, Deuterium: -10},
	},
	RoboticsFactory: {
		baseCost: Cost{Metal: 400, Crystal: 120, Deuterium: 200},
		baseTime: 180,
	},
	Shipyard: {
		baseCost: Cost{Metal: 400, Crystal: 200, Deuterium: 100},
		baseTime: 240,
	},
	ResearchLab: {
		baseCost: Cost{Metal: 200, Crystal: 400, Deuterium: 200},
		baseTime: 200,
	},
	MissileSilo: {
		baseCost: Cost{Metal: 20000, Crystal: 20000, Deuterium: 1000},
		baseTime: 600,
	},
	NaniteFactory: {
		baseCost: Cost{Metal: 1000000, Crystal: 500000, Deuterium: 100000},
		baseTime: 1800,
	},
}

// AllFacilityKinds returns every facility kind in catalog order
func AllFacilityKinds() []FacilityKind {
	out := make([]FacilityKind, len(facilityOrder))
	copy(out, facilityOrder)
	return out
}

// ParseFacilityKind resolves a facility name; unknown names are rejected
func ParseFacilityKind(name string) (FacilityKind, error) {
	kind := FacilityKind(normalizeKindName(name))
	if _, ok := facilityRules[kind]; !ok {
		return "", unknownKind(TrackFacilities, name)
	}
	return kind, nil
}

func (k FacilityKind) Track() Track   { return TrackFacilities }
func (k FacilityKind) String() string { return string(k) }

// BaseCost is the level-0 upgrade cost
func (k FacilityKind) BaseCost() Cost { return facilityRules[k].baseCost }

// BaseTime is the level-0 upgrade time before reductions
func (k FacilityKind) BaseTime() time.Duration {
	return time.Duration(facilityRules[k].baseTime) * time.Second
}

// Requirements returns nil; any facility can be built from level 0
func (k FacilityKind) Requirements() []Requirement {
	return nil
}

// DrawsEnergy reports whether the facility is a mine that consumes energy
func (k FacilityKind) DrawsEnergy() bool { return facilityRules[k].drawsEnergy }

// FacilityCost is the cost of upgrading from currentLevel to currentLevel+1:
// floor(base × 1.5^currentLevel) per component
func FacilityCost(kind FacilityKind, currentLevel int) Cost {
	return kind.BaseCost().Scale(math.Pow(facilityCostGrowth, float64(currentLevel)))
}

// FacilityDuration is the upgrade time from currentLevel:
// floor(baseTime × 1.4^level × 1/(1+robotics) × 0.5^nanite) seconds
func FacilityDuration(kind FacilityKind, currentLevel, roboticsLevel, naniteLevel int) time.Duration {
	seconds := facilityRules[kind].baseTime *
		math.Pow(facilityTimeGrowth, float64(currentLevel)) *
		linearReduction(roboticsReductionPerLvl, roboticsLevel) *
		math.Pow(naniteReductionPerLevel, float64(naniteLevel))
	return time.Duration(floorSeconds(seconds)) * time.Second
}

// FacilityProduction is the hourly output of a facility at level:
// floor(base × level × 1.1^level) per produced resource. Level 0 produces nothing.
func FacilityProduction(kind FacilityKind, level int) Production {
	if level <= 0 {
		return Production{}
	}
	base := facilityRules[kind].production
	return Production{
		Metal:     scaleProduction(base.Metal, level),
		Crystal:   scaleProduction(base.Crystal, level),
		Deuterium: scaleProduction(base.Deuterium, level),
		Energy:    scaleProduction(base.Energy, level),
	}
}

// FacilityEnergyDraw is the energy consumed by mines: floor(10 × level × 1.1^level)
func FacilityEnergyDraw(kind FacilityKind, level int) int64 {
	if level <= 0 || !kind.DrawsEnergy() {
		return 0
	}
	return int64(math.Floor(mineEnergyDrawPerLevel * float64(level) * math.Pow(productionGrowth, float64(level))))
}

// scaleProduction floors the magnitude so a draw of -10 at level 1 is -11, not -12
func scaleProduction(base int64, level int) int64 {
	switch {
	case base == 0:
		return 0
	case base < 0:
		return -scaleProduction(-base, level)
	}
	return int64(math.Floor(float64(base) * float64(level) * math.Pow(productionGrowth, float64(level))))
}

// linearReduction is 1/(1+k·level), the speed-up granted by a supporting facility
func linearReduction(k float64, level int) float64 {
	if level <= 0 {
		return 1
	}
	return 1 / (1 + k*float64(level))
}
