package config

import (
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/colony"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.User == "" {
			cfg.Database.User = "colony"
		}
		if cfg.Database.Name == "" {
			cfg.Database.Name = "colony"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "colony.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	setEconomyDefaults(&cfg.Economy)
}

// setEconomyDefaults fills zero values from the standard game policy.
// A zero refund ratio or debounce is indistinguishable from unset and gets the default.
func setEconomyDefaults(e *EconomyConfig) {
	policy := colony.DefaultPolicy()

	if e.AccrualDebounce == 0 {
		e.AccrualDebounce = policy.AccrualDebounce
	}
	if e.RefundRatio == 0 {
		e.RefundRatio = policy.RefundRatio
	}
	if e.MaxDefenseBatch == 0 {
		e.MaxDefenseBatch = policy.MaxDefenseBatch
	}
	if e.StartingStock == (ResourceConfig{}) {
		stock := policy.Defaults.Stock
		e.StartingStock = ResourceConfig{Metal: stock.Metal, Crystal: stock.Crystal, Deuterium: stock.Deuterium}
	}
	if e.Capacity == (ResourceConfig{}) {
		capacity := policy.Defaults.Capacity
		e.Capacity = ResourceConfig{Metal: capacity.Metal, Crystal: capacity.Crystal, Deuterium: capacity.Deuterium}
	}
	if e.BaseRates == (ResourceConfig{}) {
		base := policy.BaseRates
		e.BaseRates = ResourceConfig{Metal: base.Metal, Crystal: base.Crystal, Deuterium: base.Deuterium}
	}

	if e.Sweep.Interval == 0 {
		e.Sweep.Interval = time.Minute
	}
	if e.Sweep.PlayersPerSecond == 0 {
		e.Sweep.PlayersPerSecond = 10
	}
	if e.Sweep.BatchSize == 0 {
		e.Sweep.BatchSize = 500
	}
}
