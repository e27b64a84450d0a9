package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/adapters/metrics"
	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// StartBuildCommand starts upgrading a facility, researching a technology or
// building a batch of defense units
type StartBuildCommand struct {
	PlayerKey string
	Track     string
	Kind      string
	Amount    int // defaults to 1
}

// StartBuildResponse contains the in-progress record with what it cost
type StartBuildResponse struct {
	Record   appColony.RecordDTO
	Cost     rules.Cost
	Duration time.Duration
}

// StartBuildHandler handles the StartBuild command
type StartBuildHandler struct {
	executor *appColony.Executor
}

// NewStartBuildHandler creates a new StartBuildHandler
func NewStartBuildHandler(executor *appColony.Executor) *StartBuildHandler {
	return &StartBuildHandler{executor: executor}
}

// Handle executes the StartBuild command
func (h *StartBuildHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartBuildCommand")
	}

	key, err := shared.NewPlayerKey(cmd.PlayerKey)
	if err != nil {
		return nil, err
	}
	kind, err := appColony.ParseTrackKind(cmd.Track, cmd.Kind)
	if err != nil {
		return nil, err
	}
	amount := cmd.Amount
	if amount == 0 {
		amount = 1
	}

	var response *StartBuildResponse
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		result, err := c.StartBuild(kind, amount, now)
		if err != nil {
			return err
		}
		response = &StartBuildResponse{
			Record:   appColony.ToRecordDTO(result.Record),
			Cost:     result.Cost,
			Duration: result.Duration,
		}
		return nil
	})

	logger := common.LoggerFromContext(ctx)
	if err != nil {
		reason := shared.RejectionReason(err)
		metrics.RecordBuildRejected(kind.Track().String(), reason)
		logger.Log(common.LevelWarn, "Build rejected", map[string]interface{}{
			"player": key.String(),
			"track":  kind.Track().String(),
			"kind":   kind.String(),
			"amount": amount,
			"reason": reason,
			"error":  err.Error(),
		})
		return nil, err
	}

	metrics.RecordBuildStarted(kind.Track().String(), kind.String(), amount)
	logger.Log(common.LevelInfo, "Build started", map[string]interface{}{
		"player":       key.String(),
		"track":        kind.Track().String(),
		"kind":         kind.String(),
		"amount":       amount,
		"cost":         response.Cost.String(),
		"duration":     response.Duration.String(),
		"completes_at": response.Record.CompletesAt,
	})
	return response, nil
}
