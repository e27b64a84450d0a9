package queries

import (
	"context"
	"fmt"
	"time"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GetResourcesQuery reads a player's ledger. Completions, rate recomputation
// and accrual run first, so the query writes.
type GetResourcesQuery struct {
	PlayerKey string
}

// GetResourcesResponse contains the refreshed ledger
type GetResourcesResponse struct {
	Resources *appColony.ResourcesDTO
}

// GetResourcesHandler handles the GetResources query
type GetResourcesHandler struct {
	executor *appColony.Executor
}

// NewGetResourcesHandler creates a new GetResourcesHandler
func NewGetResourcesHandler(executor *appColony.Executor) *GetResourcesHandler {
	return &GetResourcesHandler{executor: executor}
}

// Handle executes the GetResources query
func (h *GetResourcesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetResourcesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetResourcesQuery")
	}

	key, err := shared.NewPlayerKey(query.PlayerKey)
	if err != nil {
		return nil, err
	}

	var response *GetResourcesResponse
	err = h.executor.Run(ctx, key, func(ctx context.Context, c *colony.Colony, now time.Time) error {
		c.Refresh(now)
		response = &GetResourcesResponse{Resources: appColony.ToResourcesDTO(c.Resources())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
