package persistence

import (
	"time"
)

// PlayerResourcesModel represents the player_resources table.
// One row per player; stock is fractional, accrual is applied in-process.
type PlayerResourcesModel struct {
	PlayerKey         string    `gorm:"column:player_key;primaryKey;size:255"`
	Metal             float64   `gorm:"column:metal;not null;default:0"`
	Crystal           float64   `gorm:"column:crystal;not null;default:0"`
	Deuterium         float64   `gorm:"column:deuterium;not null;default:0"`
	MetalCapacity     float64   `gorm:"column:metal_capacity;not null"`
	CrystalCapacity   float64   `gorm:"column:crystal_capacity;not null"`
	DeuteriumCapacity float64   `gorm:"column:deuterium_capacity;not null"`
	MetalRate         float64   `gorm:"column:metal_rate;not null;default:0"`
	CrystalRate       float64   `gorm:"column:crystal_rate;not null;default:0"`
	DeuteriumRate     float64   `gorm:"column:deuterium_rate;not null;default:0"`
	EnergyProduction  int64     `gorm:"column:energy_production;not null;default:0"`
	EnergyConsumption int64     `gorm:"column:energy_consumption;not null;default:0"`
	LastUpdate        time.Time `gorm:"column:last_update;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (PlayerResourcesModel) TableName() string {
	return "player_resources"
}

// TrackRecordModel represents the track_records table.
// Composite primary key (player_key, track, kind); one row per facility, technology or defense unit.
type TrackRecordModel struct {
	PlayerKey        string     `gorm:"column:player_key;primaryKey;size:255"`
	Track            string     `gorm:"column:track;primaryKey;size:32"`
	Kind             string     `gorm:"column:kind;primaryKey;size:64"`
	Count            int        `gorm:"column:count;not null;default:0"`
	InProgress       int        `gorm:"column:in_progress;not null;default:0"`
	StartedAt        *time.Time `gorm:"column:started_at"`
	CompletesAt      *time.Time `gorm:"column:completes_at;index:idx_track_records_due"`
	ChargedMetal     int64      `gorm:"column:charged_metal;not null;default:0"`
	ChargedCrystal   int64      `gorm:"column:charged_crystal;not null;default:0"`
	ChargedDeuterium int64      `gorm:"column:charged_deuterium;not null;default:0"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;not null"`
}

func (TrackRecordModel) TableName() string {
	return "track_records"
}

// TransactionModel represents the resource_transactions table
type TransactionModel struct {
	ID              string    `gorm:"column:id;primaryKey;size:36"`
	PlayerKey       string    `gorm:"column:player_key;not null;size:255;index:idx_resource_transactions_player_time"`
	Timestamp       time.Time `gorm:"column:timestamp;not null;index:idx_resource_transactions_player_time"`
	TransactionType string    `gorm:"column:transaction_type;not null;size:32"`
	Category        string    `gorm:"column:category;not null;size:32"`
	Metal           int64     `gorm:"column:metal;not null;default:0"`
	Crystal         int64     `gorm:"column:crystal;not null;default:0"`
	Deuterium       int64     `gorm:"column:deuterium;not null;default:0"`
	Description     string    `gorm:"column:description;type:text"`
	RelatedKind     string    `gorm:"column:related_kind;size:64"`
	RelatedAmount   int       `gorm:"column:related_amount;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (TransactionModel) TableName() string {
	return "resource_transactions"
}
