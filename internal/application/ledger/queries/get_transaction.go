package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GetTransactionQuery looks up one transaction of a player by id
type GetTransactionQuery struct {
	PlayerKey     string
	TransactionID string
}

// GetTransactionResponse carries the transaction found
type GetTransactionResponse struct {
	Transaction *TransactionDTO
}

// GetTransactionHandler handles the GetTransaction query
type GetTransactionHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetTransactionHandler creates a new GetTransactionHandler
func NewGetTransactionHandler(transactionRepo ledger.TransactionRepository) *GetTransactionHandler {
	return &GetTransactionHandler{transactionRepo: transactionRepo}
}

// Handle executes the GetTransaction query. Another player's id reads as not found.
func (h *GetTransactionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTransactionQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionQuery")
	}

	playerKey, err := shared.NewPlayerKey(query.PlayerKey)
	if err != nil {
		return nil, err
	}
	id, err := ledger.ParseTransactionID(query.TransactionID)
	if err != nil {
		return nil, shared.NewValidationError("id", err.Error())
	}

	tx, err := h.transactionRepo.FindByID(ctx, id, playerKey)
	if err != nil {
		return nil, err
	}
	return &GetTransactionResponse{Transaction: toDTO(tx)}, nil
}
