package queries

import (
	"context"
	"fmt"
	"time"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GetTrackQuery lists every kind of one track for a player, resolving due builds first
type GetTrackQuery struct {
	PlayerKey string
	Track     string
}

// TrackEntryDTO is one row of the track listing
type TrackEntryDTO struct {
	appColony.RecordDTO `yaml:",inline"`
	Cost                rules.Cost    `yaml:"next_cost"`
	Duration            time.Duration `yaml:"next_duration"`
	RequirementsMet     bool          `yaml:"requirements_met"`
	UnmetRequirement    string        `yaml:"unmet_requirement,omitempty"`
}

// GetTrackResponse contains the track listing with supporting context
type GetTrackResponse struct {
	Track          string               `yaml:"track"`
	Entries        []TrackEntryDTO      `yaml:"entries"`
	ActiveResearch *appColony.RecordDTO `yaml:"active_research,omitempty"`
	Support        rules.Support        `yaml:"support"`
	DefensePower   int64                `yaml:"defense_power,omitempty"`
}

// GetTrackHandler handles the GetTrack query
type GetTrackHandler struct {
	executor *appColony.Executor
}

// NewGetTrackHandler creates a new GetTrackHandler
func NewGetTrackHandler(executor *appColony.Executor) *GetTrackHandler {
	return &GetTrackHandler{executor: executor}
}

// Handle executes the GetTrack query
func (h *GetTrackHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTrackQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTrackQuery")
	}

	key, err := shared.NewPlayerKey(query.PlayerKey)
	if err != nil {
		return nil, err
	}
	t, err := rules.ParseTrack(query.Track)
	if err != nil {
		return nil, err
	}

	var response *GetTrackResponse
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		c.Refresh(now)
		response = buildTrackResponse(c, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func buildTrackResponse(c *colony.Colony, t rules.Track) *GetTrackResponse {
	entries := c.Entries(t)
	response := &GetTrackResponse{
		Track:   t.String(),
		Entries: make([]TrackEntryDTO, 0, len(entries)),
		Support: c.Tracks().Support(),
	}

	for _, entry := range entries {
		dto := TrackEntryDTO{
			RecordDTO:       appColony.ToRecordDTO(entry.Record),
			Cost:            entry.Cost,
			Duration:        entry.Duration,
			RequirementsMet: entry.RequirementsMet,
		}
		if entry.Unmet != nil {
			dto.UnmetRequirement = entry.Unmet.String()
		}
		response.Entries = append(response.Entries, dto)
	}

	if active, ok := c.Tracks().ActiveResearch(); ok {
		dto := appColony.ToRecordDTO(active)
		response.ActiveResearch = &dto
	}
	if t == rules.TrackDefense {
		response.DefensePower = c.DefensePower()
	}
	return response
}
