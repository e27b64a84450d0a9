package colony

import (
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// ResourcesDTO is the read model of a player's ledger
type ResourcesDTO struct {
	PlayerKey         string    `yaml:"player"`
	Metal             float64   `yaml:"metal"`
	Crystal           float64   `yaml:"crystal"`
	Deuterium         float64   `yaml:"deuterium"`
	EnergyProduction  int64     `yaml:"energy_production"`
	EnergyConsumption int64     `yaml:"energy_consumption"`
	EnergyBalance     int64     `yaml:"energy_balance"`
	EnergyState       string    `yaml:"energy_state"`
	MetalRate         float64   `yaml:"metal_rate"`
	CrystalRate       float64   `yaml:"crystal_rate"`
	DeuteriumRate     float64   `yaml:"deuterium_rate"`
	StorageMetal      float64   `yaml:"storage_metal"`
	StorageCrystal    float64   `yaml:"storage_crystal"`
	StorageDeuterium  float64   `yaml:"storage_deuterium"`
	LastUpdate        time.Time `yaml:"last_update"`
}

// RecordDTO is the read model of one track record
type RecordDTO struct {
	Track            string     `yaml:"track"`
	Kind             string     `yaml:"kind"`
	Count            int        `yaml:"count"`
	InProgressAmount int        `yaml:"in_progress,omitempty"`
	StartedAt        *time.Time `yaml:"started_at,omitempty"`
	CompletesAt      *time.Time `yaml:"completes_at,omitempty"`
}

// ToResourcesDTO converts a ledger into its read model
func ToResourcesDTO(r *ledger.PlayerResources) *ResourcesDTO {
	stock := r.Stock()
	capacity := r.Capacity()
	rates := r.Rates()
	return &ResourcesDTO{
		PlayerKey:         r.PlayerKey().String(),
		Metal:             stock.Metal,
		Crystal:           stock.Crystal,
		Deuterium:         stock.Deuterium,
		EnergyProduction:  rates.Energy.Production,
		EnergyConsumption: rates.Energy.Consumption,
		EnergyBalance:     rates.Energy.Net(),
		EnergyState:       rates.Energy.State().String(),
		MetalRate:         rates.Metal,
		CrystalRate:       rates.Crystal,
		DeuteriumRate:     rates.Deuterium,
		StorageMetal:      capacity.Metal,
		StorageCrystal:    capacity.Crystal,
		StorageDeuterium:  capacity.Deuterium,
		LastUpdate:        r.LastUpdate(),
	}
}

// ToRecordDTO converts a track record into its read model
func ToRecordDTO(r *track.Record) RecordDTO {
	return RecordDTO{
		Track:            r.Track().String(),
		Kind:             r.Kind().String(),
		Count:            r.Count(),
		InProgressAmount: r.InProgressAmount(),
		StartedAt:        r.StartedAt(),
		CompletesAt:      r.CompletesAt(),
	}
}

// ParseTrackKind resolves a (track, kind) pair from request strings
func ParseTrackKind(trackName, kindName string) (rules.Kind, error) {
	t, err := rules.ParseTrack(trackName)
	if err != nil {
		return nil, err
	}
	return rules.ParseKind(t, kindName)
}
