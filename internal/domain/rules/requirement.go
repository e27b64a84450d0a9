package rules

import "fmt"

// Requirement is a prerequisite: the named facility or technology must be at least Level
type Requirement struct {
	Kind  Kind
	Level int
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s>=%d", r.Kind, r.Level)
}

// LevelSource answers the current level of a facility or technology
type LevelSource interface {
	LevelOf(kind Kind) int
}

// FirstUnmet returns the first requirement not satisfied by levels, in table order
func FirstUnmet(reqs []Requirement, levels LevelSource) (Requirement, int, bool) {
	for _, req := range reqs {
		current := levels.LevelOf(req.Kind)
		if current < req.Level {
			return req, current, true
		}
	}
	return Requirement{}, 0, false
}

// Requirements returns the static prerequisite table of any kind
func Requirements(kind Kind) []Requirement {
	switch k := kind.(type) {
	case FacilityKind:
		return k.Requirements()
	case ResearchKind:
		return k.Requirements()
	case DefenseKind:
		return k.Requirements()
	}
	return nil
}

func facility(kind FacilityKind, level int) Requirement {
	return Requirement{Kind: kind, Level: level}
}

func tech(kind ResearchKind, level int) Requirement {
	return Requirement{Kind: kind, Level: level}
}
