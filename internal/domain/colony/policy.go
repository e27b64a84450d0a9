package colony

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/production"
)

// Policy is the tunable part of the economy
type Policy struct {
	AccrualDebounce time.Duration
	RefundRatio     float64
	MaxDefenseBatch int
	Defaults        ledger.Defaults
	BaseRates       production.BaseRates
}

// DefaultPolicy returns the standard game settings
func DefaultPolicy() Policy {
	defaults := ledger.StandardDefaults()
	return Policy{
		AccrualDebounce: ledger.DefaultAccrualDebounce,
		RefundRatio:     0.5,
		MaxDefenseBatch: 1000,
		Defaults:        defaults,
		BaseRates: production.BaseRates{
			Metal:     defaults.Rates.Metal,
			Crystal:   defaults.Rates.Crystal,
			Deuterium: defaults.Rates.Deuterium,
		},
	}
}

// Validate checks the policy is usable
func (p Policy) Validate() error {
	if p.AccrualDebounce < 0 {
		return fmt.Errorf("accrual debounce must not be negative: %s", p.AccrualDebounce)
	}
	if p.RefundRatio < 0 || p.RefundRatio > 0.5 {
		return fmt.Errorf("refund ratio must be within [0, 0.5]: %v", p.RefundRatio)
	}
	if p.MaxDefenseBatch < 1 {
		return fmt.Errorf("max defense batch must be at least 1: %d", p.MaxDefenseBatch)
	}
	return nil
}
