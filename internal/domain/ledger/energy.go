package ledger

// EnergyState classifies a colony's power supply for accrual throttling
type EnergyState int

const (
	// EnergySurplus: production covers consumption, production runs at full speed
	EnergySurplus EnergyState = iota
	// EnergyDeficit: consumption exceeds production, output scales by production/consumption
	EnergyDeficit
	// EnergyBalancedEmpty: nothing produces or draws power, production is not throttled
	EnergyBalancedEmpty
)

func (s EnergyState) String() string {
	switch s {
	case EnergySurplus:
		return "surplus"
	case EnergyDeficit:
		return "deficit"
	case EnergyBalancedEmpty:
		return "balanced_empty"
	default:
		return "unknown"
	}
}

// EnergyBalance is the instantaneous power budget of a colony
type EnergyBalance struct {
	Production  int64
	Consumption int64
}

// State classifies the balance
func (b EnergyBalance) State() EnergyState {
	switch {
	case b.Production == 0 && b.Consumption == 0:
		return EnergyBalancedEmpty
	case b.Production < b.Consumption:
		return EnergyDeficit
	default:
		return EnergySurplus
	}
}

// Ratio is the 0..1 multiplier applied to hourly production.
// A deficit with no production at all is total starvation (0).
func (b EnergyBalance) Ratio() float64 {
	if b.State() != EnergyDeficit {
		return 1
	}
	if b.Production <= 0 {
		return 0
	}
	return float64(b.Production) / float64(b.Consumption)
}

// Net is production minus consumption
func (b EnergyBalance) Net() int64 {
	return b.Production - b.Consumption
}
