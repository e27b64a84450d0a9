package commands

import (
	"context"
	"fmt"
	"time"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// InitPlayerCommand creates a player's colony with default resources
type InitPlayerCommand struct {
	PlayerKey string
}

// InitPlayerResponse contains the freshly created ledger
type InitPlayerResponse struct {
	Resources *appColony.ResourcesDTO
}

// InitPlayerHandler handles the InitPlayer command
type InitPlayerHandler struct {
	executor *appColony.Executor
}

// NewInitPlayerHandler creates a new InitPlayerHandler
func NewInitPlayerHandler(executor *appColony.Executor) *InitPlayerHandler {
	return &InitPlayerHandler{executor: executor}
}

// Handle executes the InitPlayer command
func (h *InitPlayerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*InitPlayerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *InitPlayerCommand")
	}

	key, err := shared.NewPlayerKey(cmd.PlayerKey)
	if err != nil {
		return nil, err
	}

	var response *InitPlayerResponse
	err = h.executor.Init(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		response = &InitPlayerResponse{Resources: appColony.ToResourcesDTO(c.Resources())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
