package config

import (
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/production"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// EconomyConfig holds the tunable game rules
type EconomyConfig struct {
	// Minimum elapsed time before an accrual is applied
	AccrualDebounce time.Duration `mapstructure:"accrual_debounce" yaml:"accrual_debounce"`

	// Share of the charged cost returned on cancellation
	RefundRatio float64 `mapstructure:"refund_ratio" yaml:"refund_ratio" validate:"min=0,max=0.5"`

	// Largest defense batch accepted by a single build
	MaxDefenseBatch int `mapstructure:"max_defense_batch" yaml:"max_defense_batch" validate:"min=1"`

	StartingStock ResourceConfig `mapstructure:"starting_stock" yaml:"starting_stock"`
	Capacity      ResourceConfig `mapstructure:"capacity" yaml:"capacity"`
	BaseRates     ResourceConfig `mapstructure:"base_rates" yaml:"base_rates"`

	Sweep SweepConfig `mapstructure:"sweep" yaml:"sweep"`
}

// ResourceConfig is one amount per storable commodity
type ResourceConfig struct {
	Metal     float64 `mapstructure:"metal" yaml:"metal" validate:"min=0"`
	Crystal   float64 `mapstructure:"crystal" yaml:"crystal" validate:"min=0"`
	Deuterium float64 `mapstructure:"deuterium" yaml:"deuterium" validate:"min=0"`
}

// SweepConfig controls the daemon's background completion sweep
type SweepConfig struct {
	Enabled          bool          `mapstructure:"enabled" yaml:"enabled"`
	Interval         time.Duration `mapstructure:"interval" yaml:"interval"`
	PlayersPerSecond float64       `mapstructure:"players_per_second" yaml:"players_per_second" validate:"min=0"`
	BatchSize        int           `mapstructure:"batch_size" yaml:"batch_size" validate:"min=0"`
}

func (r ResourceConfig) amounts() shared.ResourceAmounts {
	return shared.ResourceAmounts{Metal: r.Metal, Crystal: r.Crystal, Deuterium: r.Deuterium}
}

// Policy converts the economy section into the domain policy
func (e EconomyConfig) Policy() colony.Policy {
	return colony.Policy{
		AccrualDebounce: e.AccrualDebounce,
		RefundRatio:     e.RefundRatio,
		MaxDefenseBatch: e.MaxDefenseBatch,
		Defaults: ledger.Defaults{
			Stock:    e.StartingStock.amounts(),
			Capacity: e.Capacity.amounts(),
			Rates: ledger.Rates{
				Metal:     e.BaseRates.Metal,
				Crystal:   e.BaseRates.Crystal,
				Deuterium: e.BaseRates.Deuterium,
			},
		},
		BaseRates: production.BaseRates{
			Metal:     e.BaseRates.Metal,
			Crystal:   e.BaseRates.Crystal,
			Deuterium: e.BaseRates.Deuterium,
		},
	}
}
