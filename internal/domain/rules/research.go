package rules

import (
	"math"
	"time"
)

// ResearchKind enumerates the technologies a colony can research
type ResearchKind string

const (
	EnergyTech           ResearchKind = "energy_tech"
	LaserTech            ResearchKind = "laser_tech"
	IonTech              ResearchKind = "ion_tech"
	HyperspaceTech       ResearchKind = "hyperspace_tech"
	PlasmaTech           ResearchKind = "plasma_tech"
	CombustionDrive      ResearchKind = "combustion_drive"
	ImpulseDrive         ResearchKind = "impulse_drive"
	HyperspaceDrive      ResearchKind = "hyperspace_drive"
	EspionageTech        ResearchKind = "espionage_tech"
	ComputerTech         ResearchKind = "computer_tech"
	Astrophysics         ResearchKind = "astrophysics"
	IntergalacticNetwork ResearchKind = "intergalactic_network"
	GravitonTech         ResearchKind = "graviton_tech"
	WeaponsTech          ResearchKind = "weapons_tech"
	ShieldingTech        ResearchKind = "shielding_tech"
	ArmorTech            ResearchKind = "armor_tech"
)

const (
	researchCostGrowth = 2.0
	researchTimeGrowth = 1.5
	labReductionPerLvl = 0.1
)

type researchRule struct {
	baseCost     Cost
	baseTime     float64
	requirements []Requirement
}

var researchOrder = []ResearchKind{
	EnergyTech, LaserTech, IonTech, HyperspaceTech, PlasmaTech,
	CombustionDrive, ImpulseDrive, HyperspaceDrive, EspionageTech, ComputerTech,
	Astrophysics, IntergalacticNetwork, GravitonTech, WeaponsTech, ShieldingTech, ArmorTech,
}

var researchRules = map[ResearchKind]researchRule{
	EnergyTech: {
		baseCost:     Cost{Crystal: 800, Deuterium: 400},
		baseTime:     300,
		requirements: []Requirement{facility(ResearchLab, 1)},
	},
	LaserTech: {
		baseCost:     Cost{Metal: 200, Crystal: 100},
		baseTime:     180,
		requirements: []Requirement{facility(ResearchLab, 1), tech(EnergyTech, 2)},
	},
	IonTech: {
		baseCost: Cost{Metal: 1000, Crystal: 300, Deuterium: 100},
		baseTime: 600,
		requirements: []Requirement{
			facility(ResearchLab, 4), tech(EnergyTech, 4), tech(LaserTech, 5),
		},
	},
	HyperspaceTech: {
		baseCost: Cost{Crystal: 4000, Deuterium: 2000},
		baseTime: 900,
		requirements: []Requirement{
			facility(ResearchLab, 7), tech(EnergyTech, 5), tech(ShieldingTech, 5),
		},
	},
	PlasmaTech: {
		baseCost: Cost{Metal: 2000, Crystal: 4000, Deuterium: 1000},
		baseTime: 1200,
		requirements: []Requirement{
			facility(ResearchLab, 4), tech(EnergyTech, 8), tech(LaserTech, 10), tech(IonTech, 5),
		},
	},
	CombustionDrive: {
		baseCost:     Cost{Metal: 400, Deuterium: 600},
		baseTime:     240,
		requirements: []Requirement{facility(ResearchLab, 1), tech(EnergyTech, 1)},
	},
	ImpulseDrive: {
		baseCost:     Cost{Metal: 2000, Crystal: 4000, Deuterium: 600},
		baseTime:     480,
		requirements: []Requirement{facility(ResearchLab, 2), tech(EnergyTech, 1)},
	},
	HyperspaceDrive: {
		baseCost:     Cost{Metal: 10000, Crystal: 20000, Deuterium: 6000},
		baseTime:     720,
		requirements: []Requirement{facility(ResearchLab, 7), tech(HyperspaceTech, 3)},
	},
	EspionageTech: {
		baseCost:     Cost{Metal: 200, Crystal: 1000, Deuterium: 200},
		baseTime:     180,
		requirements: []Requirement{facility(ResearchLab, 3)},
	},
	ComputerTech: {
		baseCost:     Cost{Crystal: 400, Deuterium: 600},
		baseTime:     300,
		requirements: []Requirement{facility(ResearchLab, 1)},
	},
	Astrophysics: {
		baseCost: Cost{Metal: 4000, Crystal: 8000, Deuterium: 4000},
		baseTime: 600,
		requirements: []Requirement{
			facility(ResearchLab, 3), tech(EspionageTech, 4), tech(ImpulseDrive, 3),
		},
	},
	IntergalacticNetwork: {
		baseCost: Cost{Metal: 240000, Crystal: 400000, Deuterium: 160000},
		baseTime: 1800,
		requirements: []Requirement{
			facility(ResearchLab, 10), tech(ComputerTech, 8), tech(HyperspaceTech, 8),
		},
	},
	// Graviton research costs nothing but takes the longest lab time
	GravitonTech: {
		baseTime:     3600,
		requirements: []Requirement{facility(ResearchLab, 12)},
	},
	WeaponsTech: {
		baseCost:     Cost{Metal: 800, Crystal: 200},
		baseTime:     240,
		requirements: []Requirement{facility(ResearchLab, 4)},
	},
	ShieldingTech: {
		baseCost:     Cost{Metal: 200, Crystal: 600},
		baseTime:     300,
		requirements: []Requirement{facility(ResearchLab, 6), tech(EnergyTech, 3)},
	},
	ArmorTech: {
		baseCost:     Cost{Metal: 1000},
		baseTime:     360,
		requirements: []Requirement{facility(ResearchLab, 2)},
	},
}

// AllResearchKinds returns every technology in catalog order
func AllResearchKinds() []ResearchKind {
	out := make([]ResearchKind, len(researchOrder))
	copy(out, researchOrder)
	return out
}

// ParseResearchKind resolves a technology name; unknown names are rejected
func ParseResearchKind(name string) (ResearchKind, error) {
	kind := ResearchKind(normalizeKindName(name))
	if _, ok := researchRules[kind]; !ok {
		return "", unknownKind(TrackResearch, name)
	}
	return kind, nil
}

func (k ResearchKind) Track() Track   { return TrackResearch }
func (k ResearchKind) String() string { return string(k) }

func (k ResearchKind) BaseCost() Cost { return researchRules[k].baseCost }

func (k ResearchKind) BaseTime() time.Duration {
	return time.Duration(researchRules[k].baseTime) * time.Second
}

func (k ResearchKind) Requirements() []Requirement {
	return researchRules[k].requirements
}

// ResearchCost is the cost of researching currentLevel+1: floor(base × 2^currentLevel)
func ResearchCost(kind ResearchKind, currentLevel int) Cost {
	return kind.BaseCost().Scale(math.Pow(researchCostGrowth, float64(currentLevel)))
}

// ResearchDuration is floor(baseTime × 1.5^level × 1/(1+0.1·lab)) seconds
func ResearchDuration(kind ResearchKind, currentLevel, labLevel int) time.Duration {
	seconds := researchRules[kind].baseTime *
		math.Pow(researchTimeGrowth, float64(currentLevel)) *
		linearReduction(labReductionPerLvl, labLevel)
	return time.Duration(floorSeconds(seconds)) * time.Second
}
