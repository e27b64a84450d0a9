package commands

import (
	"context"
	"fmt"
	"time"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GrantResourcesCommand credits resources to a player (operator action).
// Credits are clamped to storage capacity.
type GrantResourcesCommand struct {
	PlayerKey string
	Metal     int64
	Crystal   int64
	Deuterium int64
	Reason    string
}

// GrantResourcesResponse contains the ledger after the grant
type GrantResourcesResponse struct {
	Resources *appColony.ResourcesDTO
}

// GrantResourcesHandler handles the GrantResources command
type GrantResourcesHandler struct {
	executor *appColony.Executor
}

// NewGrantResourcesHandler creates a new GrantResourcesHandler
func NewGrantResourcesHandler(executor *appColony.Executor) *GrantResourcesHandler {
	return &GrantResourcesHandler{executor: executor}
}

// Handle executes the GrantResources command
func (h *GrantResourcesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*GrantResourcesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GrantResourcesCommand")
	}

	key, err := shared.NewPlayerKey(cmd.PlayerKey)
	if err != nil {
		return nil, err
	}
	grant := rules.Cost{Metal: cmd.Metal, Crystal: cmd.Crystal, Deuterium: cmd.Deuterium}

	var response *GrantResourcesResponse
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		if err := c.Grant(grant, cmd.Reason, now); err != nil {
			return err
		}
		response = &GrantResourcesResponse{Resources: appColony.ToResourcesDTO(c.Resources())}
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Resources granted", map[string]interface{}{
		"player": key.String(),
		"grant":  grant.String(),
		"reason": cmd.Reason,
	})
	return response, nil
}
