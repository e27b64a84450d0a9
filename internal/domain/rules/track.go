package rules

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// Track is a category of buildable progression
type Track string

const (
	// TrackFacilities covers production and infrastructure buildings (levelled)
	TrackFacilities Track = "facilities"

	// TrackResearch covers technologies (levelled, one research at a time per colony)
	TrackResearch Track = "research"

	// TrackDefense covers defensive units (counted, built in batches)
	TrackDefense Track = "defense"
)

// AllTracks returns all tracks in display order
func AllTracks() []Track {
	return []Track{TrackFacilities, TrackResearch, TrackDefense}
}

func (t Track) String() string {
	return string(t)
}

// IsValid checks if the track is known
func (t Track) IsValid() bool {
	switch t {
	case TrackFacilities, TrackResearch, TrackDefense:
		return true
	default:
		return false
	}
}

// IsLevelled reports whether records of this track carry a level (as opposed to a unit count)
func (t Track) IsLevelled() bool {
	return t == TrackFacilities || t == TrackResearch
}

// ParseTrack parses a track name; "facility", "defenses" and similar plurals are accepted
func ParseTrack(s string) (Track, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "facilities", "facility":
		return TrackFacilities, nil
	case "research", "researches", "technology":
		return TrackResearch, nil
	case "defense", "defenses", "defence":
		return TrackDefense, nil
	}
	return "", shared.NewValidationError("track", fmt.Sprintf("unknown track: %q", s))
}

// Kind is an enumerated buildable type belonging to exactly one track
type Kind interface {
	Track() Track
	String() string
}

// ParseKind resolves a kind name within a track. Unknown names are rejected.
func ParseKind(track Track, name string) (Kind, error) {
	switch track {
	case TrackFacilities:
		return ParseFacilityKind(name)
	case TrackResearch:
		return ParseResearchKind(name)
	case TrackDefense:
		return ParseDefenseKind(name)
	}
	return nil, shared.NewValidationError("track", fmt.Sprintf("unknown track: %q", track))
}

// KindsOf lists every kind of a track in catalog order
func KindsOf(track Track) []Kind {
	var kinds []Kind
	switch track {
	case TrackFacilities:
		for _, k := range AllFacilityKinds() {
			kinds = append(kinds, k)
		}
	case TrackResearch:
		for _, k := range AllResearchKinds() {
			kinds = append(kinds, k)
		}
	case TrackDefense:
		for _, k := range AllDefenseKinds() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func unknownKind(track Track, name string) error {
	return shared.NewValidationError("type", fmt.Sprintf("unknown %s type: %q", track, name))
}

func normalizeKindName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
