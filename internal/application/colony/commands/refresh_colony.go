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

// RefreshColonyCommand accrues production and resolves due builds for one player
type RefreshColonyCommand struct {
	PlayerKey string
}

// RefreshColonyResponse reports how many builds the refresh completed
type RefreshColonyResponse struct {
	Completed int
}

// RefreshColonyHandler handles the RefreshColony command
type RefreshColonyHandler struct {
	executor *appColony.Executor
}

// NewRefreshColonyHandler creates a new RefreshColonyHandler
func NewRefreshColonyHandler(executor *appColony.Executor) *RefreshColonyHandler {
	return &RefreshColonyHandler{executor: executor}
}

// Handle executes the RefreshColony command
func (h *RefreshColonyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RefreshColonyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RefreshColonyCommand")
	}

	key, err := shared.NewPlayerKey(cmd.PlayerKey)
	if err != nil {
		return nil, err
	}

	response := &RefreshColonyResponse{}
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		response.Completed = len(c.Refresh(now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
