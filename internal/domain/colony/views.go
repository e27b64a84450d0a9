package colony

import (
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// TrackEntry is the read model of one kind within a track
type TrackEntry struct {
	Record          *track.Record
	Cost            rules.Cost
	Duration        time.Duration
	RequirementsMet bool
	Unmet           *rules.Requirement
}

// Quote prices the next build of kind at the colony's current levels.
// For defense, amount is the batch size; levelled tracks ignore it.
func (c *Colony) Quote(kind rules.Kind, amount int) (rules.Cost, time.Duration) {
	record := c.tracks.Ensure(kind)
	return rules.Quote(kind, record.Count(), amount, c.tracks.Support().Effective())
}

// RequirementsMet reports whether every prerequisite of kind is satisfied
func (c *Colony) RequirementsMet(kind rules.Kind) bool {
	_, _, unmet := rules.FirstUnmet(rules.Requirements(kind), c.tracks)
	return !unmet
}

// Entries lists every kind of a track with its next-build quote (defense priced per unit)
func (c *Colony) Entries(t rules.Track) []TrackEntry {
	records := c.tracks.EnsureTrack(t)
	entries := make([]TrackEntry, 0, len(records))
	for _, record := range records {
		cost, duration := c.Quote(record.Kind(), 1)
		entry := TrackEntry{
			Record:          record,
			Cost:            cost,
			Duration:        duration,
			RequirementsMet: true,
		}
		if req, _, unmet := rules.FirstUnmet(rules.Requirements(record.Kind()), c.tracks); unmet {
			entry.RequirementsMet = false
			entry.Unmet = &req
		}
		entries = append(entries, entry)
	}
	return entries
}

// DefensePower is Σ attack × quantity over completed defense units
func (c *Colony) DefensePower() int64 {
	return rules.DefensePower(c.tracks.DefenseQuantities())
}
