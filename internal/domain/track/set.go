package track

import (
	"sort"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// Set holds every track record a player has, keyed by kind.
// Records are created lazily at count 0 the first time a kind is referenced.
type Set struct {
	records map[rules.Kind]*Record
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{records: make(map[rules.Kind]*Record)}
}

// NewSetFromRecords rebuilds a set from persisted records
func NewSetFromRecords(records []*Record) *Set {
	s := NewSet()
	for _, r := range records {
		s.records[r.Kind()] = r
	}
	return s
}

// Get returns the record for kind without creating it
func (s *Set) Get(kind rules.Kind) (*Record, bool) {
	r, ok := s.records[kind]
	return r, ok
}

// Ensure returns the record for kind, creating an idle level-0 record if absent
func (s *Set) Ensure(kind rules.Kind) *Record {
	if r, ok := s.records[kind]; ok {
		return r
	}
	r := NewRecord(kind)
	s.records[kind] = r
	return r
}

// EnsureTrack creates every missing record of a track and returns them in catalog order
func (s *Set) EnsureTrack(track rules.Track) []*Record {
	kinds := rules.KindsOf(track)
	out := make([]*Record, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, s.Ensure(kind))
	}
	return out
}

// All returns every record, ordered by track then catalog position
func (s *Set) All() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return catalogIndex(out[i].Kind()) < catalogIndex(out[j].Kind())
	})
	return out
}

// ResolveAll completes every due build. A second call at the same instant returns nothing.
func (s *Set) ResolveAll(now time.Time) []Completion {
	var completions []Completion
	for _, r := range s.All() {
		if c, ok := r.Resolve(now); ok {
			completions = append(completions, c)
		}
	}
	return completions
}

// Active returns the in-progress records of a track
func (s *Set) Active(track rules.Track) []*Record {
	var active []*Record
	for _, r := range s.All() {
		if r.Track() == track && r.IsInProgress() {
			active = append(active, r)
		}
	}
	return active
}

// ActiveResearch returns the one running research, if any
func (s *Set) ActiveResearch() (*Record, bool) {
	active := s.Active(rules.TrackResearch)
	if len(active) == 0 {
		return nil, false
	}
	return active[0], true
}

// NextCompletion is the earliest completesAt across all tracks
func (s *Set) NextCompletion() *time.Time {
	var next *time.Time
	for _, r := range s.records {
		if at := r.CompletesAt(); at != nil && (next == nil || at.Before(*next)) {
			next = at
		}
	}
	return next
}

// LevelOf answers requirement checks; kinds never referenced are level 0
func (s *Set) LevelOf(kind rules.Kind) int {
	if r, ok := s.records[kind]; ok {
		return r.Count()
	}
	return 0
}

// FacilityLevels feeds the production aggregator
func (s *Set) FacilityLevels() map[rules.FacilityKind]int {
	levels := make(map[rules.FacilityKind]int)
	for kind, r := range s.records {
		if f, ok := kind.(rules.FacilityKind); ok {
			levels[f] = r.Count()
		}
	}
	return levels
}

// DefenseQuantities returns completed unit counts per defense kind
func (s *Set) DefenseQuantities() map[rules.DefenseKind]int {
	quantities := make(map[rules.DefenseKind]int)
	for kind, r := range s.records {
		if d, ok := kind.(rules.DefenseKind); ok && r.Count() > 0 {
			quantities[d] = r.Count()
		}
	}
	return quantities
}

// Support returns the levels of the construction-speed facilities
func (s *Set) Support() rules.Support {
	return rules.Support{
		RoboticsFactory: s.LevelOf(rules.RoboticsFactory),
		NaniteFactory:   s.LevelOf(rules.NaniteFactory),
		Shipyard:        s.LevelOf(rules.Shipyard),
		ResearchLab:     s.LevelOf(rules.ResearchLab),
	}
}

var catalogPositions = func() map[rules.Kind]int {
	positions := make(map[rules.Kind]int)
	i := 0
	for _, track := range rules.AllTracks() {
		for _, kind := range rules.KindsOf(track) {
			positions[kind] = i
			i++
		}
	}
	return positions
}()

func catalogIndex(kind rules.Kind) int {
	return catalogPositions[kind]
}
