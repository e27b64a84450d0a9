package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GetResourceFlowQuery summarises resources spent and returned per category
type GetResourceFlowQuery struct {
	PlayerKey string
	StartDate *time.Time
	EndDate   *time.Time
}

// GetResourceFlowResponse represents the flow statement
type GetResourceFlowResponse struct {
	Categories []*CategoryFlow
}

// CategoryFlow is the resource movement of one category
type CategoryFlow struct {
	Category     string     `yaml:"category"`
	Outflow      rules.Cost `yaml:"outflow"`
	Inflow       rules.Cost `yaml:"inflow"`
	Net          rules.Cost `yaml:"net"`
	Transactions int        `yaml:"transactions"`
}

// GetResourceFlowHandler handles the GetResourceFlow query
type GetResourceFlowHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetResourceFlowHandler creates a new GetResourceFlowHandler
func NewGetResourceFlowHandler(transactionRepo ledger.TransactionRepository) *GetResourceFlowHandler {
	return &GetResourceFlowHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetResourceFlow query
func (h *GetResourceFlowHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetResourceFlowQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetResourceFlowQuery")
	}

	playerKey, err := shared.NewPlayerKey(query.PlayerKey)
	if err != nil {
		return nil, err
	}

	// No limit - summarise every transaction in range
	opts := ledger.QueryOptions{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, playerKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	flows := make(map[ledger.Category]*CategoryFlow)
	for _, tx := range transactions {
		flow, ok := flows[tx.Category()]
		if !ok {
			flow = &CategoryFlow{Category: tx.Category().String()}
			flows[tx.Category()] = flow
		}

		if tx.IsIncome() {
			flow.Inflow = flow.Inflow.Add(tx.Amounts())
		} else {
			flow.Outflow = flow.Outflow.Add(tx.Amounts().Negate())
		}
		flow.Net = flow.Net.Add(tx.Amounts())
		flow.Transactions++
	}

	response := &GetResourceFlowResponse{Categories: make([]*CategoryFlow, 0, len(flows))}
	for _, flow := range flows {
		response.Categories = append(response.Categories, flow)
	}
	sort.Slice(response.Categories, func(i, j int) bool {
		return response.Categories[i].Category < response.Categories[j].Category
	})
	return response, nil
}
