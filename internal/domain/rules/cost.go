package rules

import (
	"fmt"
	"math"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// Cost is a whole-unit amount of the three storable commodities.
// Energy is never spent, so it has no place here.
type Cost struct {
	Metal     int64 `yaml:"metal"`
	Crystal   int64 `yaml:"crystal"`
	Deuterium int64 `yaml:"deuterium"`
}

// Scale multiplies every component by factor and floors to whole units
func (c Cost) Scale(factor float64) Cost {
	return Cost{
		Metal:     int64(math.Floor(float64(c.Metal) * factor)),
		Crystal:   int64(math.Floor(float64(c.Crystal) * factor)),
		Deuterium: int64(math.Floor(float64(c.Deuterium) * factor)),
	}
}

// Times multiplies every component by n
func (c Cost) Times(n int) Cost {
	return Cost{
		Metal:     c.Metal * int64(n),
		Crystal:   c.Crystal * int64(n),
		Deuterium: c.Deuterium * int64(n),
	}
}

// Add returns the component-wise sum
func (c Cost) Add(other Cost) Cost {
	return Cost{
		Metal:     c.Metal + other.Metal,
		Crystal:   c.Crystal + other.Crystal,
		Deuterium: c.Deuterium + other.Deuterium,
	}
}

// Negate flips the sign of every component
func (c Cost) Negate() Cost {
	return Cost{Metal: -c.Metal, Crystal: -c.Crystal, Deuterium: -c.Deuterium}
}

// IsZero reports whether every component is zero
func (c Cost) IsZero() bool {
	return c.Metal == 0 && c.Crystal == 0 && c.Deuterium == 0
}

// Amounts converts the cost into the error payload representation
func (c Cost) Amounts() shared.ResourceAmounts {
	return shared.ResourceAmounts{
		Metal:     float64(c.Metal),
		Crystal:   float64(c.Crystal),
		Deuterium: float64(c.Deuterium),
	}
}

func (c Cost) String() string {
	return fmt.Sprintf("Cost(metal=%d, crystal=%d, deuterium=%d)", c.Metal, c.Crystal, c.Deuterium)
}

// floorSeconds floors a fractional number of seconds to a whole-second duration
func floorSeconds(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Floor(seconds))
}
