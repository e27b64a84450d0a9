package rules

import "time"

// Support holds the levels of the facilities that speed up construction
type Support struct {
	RoboticsFactory int
	NaniteFactory   int
	Shipyard        int
	ResearchLab     int
}

// Effective counts a missing research lab or shipyard as level 1 when timing builds
func (s Support) Effective() Support {
	s.Shipyard = max(s.Shipyard, 1)
	s.ResearchLab = max(s.ResearchLab, 1)
	return s
}

// Quote prices a build of amount units of kind whose record is at currentLevel.
// For levelled tracks amount is ignored; for defense currentLevel is ignored.
func Quote(kind Kind, currentLevel, amount int, support Support) (Cost, time.Duration) {
	switch k := kind.(type) {
	case FacilityKind:
		return FacilityCost(k, currentLevel),
			FacilityDuration(k, currentLevel, support.RoboticsFactory, support.NaniteFactory)
	case ResearchKind:
		return ResearchCost(k, currentLevel),
			ResearchDuration(k, currentLevel, support.ResearchLab)
	case DefenseKind:
		return DefenseCost(k, amount),
			DefenseDuration(k, amount, support.Shipyard, support.NaniteFactory)
	}
	return Cost{}, 0
}

// CatalogEntry describes one buildable kind for display
type CatalogEntry struct {
	Track        Track
	Kind         Kind
	BaseCost     Cost
	BaseTime     time.Duration
	Requirements []Requirement
	Production   *Production
	Stats        *DefenseStats
	Unique       bool
}

// Catalog lists every kind of the given tracks (all tracks when none given)
func Catalog(tracks ...Track) []CatalogEntry {
	if len(tracks) == 0 {
		tracks = AllTracks()
	}

	var entries []CatalogEntry
	for _, track := range tracks {
		for _, kind := range KindsOf(track) {
			entries = append(entries, catalogEntry(kind))
		}
	}
	return entries
}

func catalogEntry(kind Kind) CatalogEntry {
	entry := CatalogEntry{
		Track:        kind.Track(),
		Kind:         kind,
		Requirements: Requirements(kind),
	}
	switch k := kind.(type) {
	case FacilityKind:
		entry.BaseCost = k.BaseCost()
		entry.BaseTime = k.BaseTime()
		prod := FacilityProduction(k, 1)
		if prod != (Production{}) {
			entry.Production = &prod
		}
	case ResearchKind:
		entry.BaseCost = k.BaseCost()
		entry.BaseTime = k.BaseTime()
	case DefenseKind:
		entry.BaseCost = k.BaseCost()
		entry.BaseTime = k.BaseTime()
		stats := k.Stats()
		entry.Stats = &stats
		entry.Unique = k.IsUnique()
	}
	return entry
}
