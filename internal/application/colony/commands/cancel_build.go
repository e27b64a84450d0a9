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

// CancelBuildCommand cancels the in-progress build of one kind
type CancelBuildCommand struct {
	PlayerKey string
	Track     string
	Kind      string
}

// CancelBuildResponse contains the refund and the now idle record
type CancelBuildResponse struct {
	Record appColony.RecordDTO
	Refund rules.Cost
	Amount int
}

// CancelBuildHandler handles the CancelBuild command
type CancelBuildHandler struct {
	executor *appColony.Executor
}

// NewCancelBuildHandler creates a new CancelBuildHandler
func NewCancelBuildHandler(executor *appColony.Executor) *CancelBuildHandler {
	return &CancelBuildHandler{executor: executor}
}

// Handle executes the CancelBuild command
func (h *CancelBuildHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CancelBuildCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelBuildCommand")
	}

	key, err := shared.NewPlayerKey(cmd.PlayerKey)
	if err != nil {
		return nil, err
	}
	kind, err := appColony.ParseTrackKind(cmd.Track, cmd.Kind)
	if err != nil {
		return nil, err
	}

	var response *CancelBuildResponse
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		result, err := c.CancelBuild(kind, now)
		if err != nil {
			return err
		}
		response = &CancelBuildResponse{
			Record: appColony.ToRecordDTO(result.Record),
			Refund: result.Refund,
			Amount: result.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBuildCancelled(kind.Track().String(), kind.String(), response.Amount)
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Build cancelled", map[string]interface{}{
		"player": key.String(),
		"track":  kind.Track().String(),
		"kind":   kind.String(),
		"amount": response.Amount,
		"refund": response.Refund.String(),
	})
	return response, nil
}
