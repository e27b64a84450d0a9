package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GetTransactionsQuery represents a query to retrieve a player's resource transactions
type GetTransactionsQuery struct {
	PlayerKey       string
	StartDate       *time.Time
	EndDate         *time.Time
	Category        *string
	TransactionType *string
	RelatedKind     *string
	Limit           int
	Offset          int
	OrderBy         string
}

// GetTransactionsResponse represents the result of the query
type GetTransactionsResponse struct {
	Transactions []*TransactionDTO
	Total        int
}

// TransactionDTO represents a transaction data transfer object
type TransactionDTO struct {
	ID            string    `yaml:"id"`
	PlayerKey     string    `yaml:"player"`
	Timestamp     time.Time `yaml:"timestamp"`
	Type          string    `yaml:"type"`
	Category      string    `yaml:"category"`
	Metal         int64     `yaml:"metal"`
	Crystal       int64     `yaml:"crystal"`
	Deuterium     int64     `yaml:"deuterium"`
	Description   string    `yaml:"description"`
	RelatedKind   string    `yaml:"related_kind,omitempty"`
	RelatedAmount int       `yaml:"related_amount,omitempty"`
}

// GetTransactionsHandler handles the GetTransactions query
type GetTransactionsHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetTransactionsHandler creates a new GetTransactionsHandler
func NewGetTransactionsHandler(transactionRepo ledger.TransactionRepository) *GetTransactionsHandler {
	return &GetTransactionsHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetTransactions query
func (h *GetTransactionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}

	playerKey, err := shared.NewPlayerKey(query.PlayerKey)
	if err != nil {
		return nil, err
	}

	opts, err := buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, playerKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	total, err := h.transactionRepo.CountByPlayer(ctx, playerKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	dtos := make([]*TransactionDTO, len(transactions))
	for i, tx := range transactions {
		dtos[i] = toDTO(tx)
	}

	return &GetTransactionsResponse{
		Transactions: dtos,
		Total:        total,
	}, nil
}

func buildQueryOptions(query *GetTransactionsQuery) (ledger.QueryOptions, error) {
	opts := ledger.DefaultQueryOptions()

	// Date range
	opts.StartDate = query.StartDate
	opts.EndDate = query.EndDate

	if query.Category != nil {
		category, err := ledger.ParseCategory(*query.Category)
		if err != nil {
			return opts, shared.NewValidationError("category", err.Error())
		}
		opts.Category = &category
	}

	if query.TransactionType != nil {
		txType, err := ledger.ParseTransactionType(*query.TransactionType)
		if err != nil {
			return opts, shared.NewValidationError("type", err.Error())
		}
		opts.TransactionType = &txType
	}

	opts.RelatedKind = query.RelatedKind

	// Pagination
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset

	// Sorting
	switch query.OrderBy {
	case "":
	case "timestamp ASC", "timestamp DESC":
		opts.OrderBy = query.OrderBy
	default:
		return opts, shared.NewValidationError("order_by", fmt.Sprintf("unsupported ordering: %q", query.OrderBy))
	}

	return opts, nil
}

func toDTO(tx *ledger.Transaction) *TransactionDTO {
	amounts := tx.Amounts()
	return &TransactionDTO{
		ID:            tx.ID().String(),
		PlayerKey:     tx.PlayerKey().String(),
		Timestamp:     tx.Timestamp(),
		Type:          tx.TransactionType().String(),
		Category:      tx.Category().String(),
		Metal:         amounts.Metal,
		Crystal:       amounts.Crystal,
		Deuterium:     amounts.Deuterium,
		Description:   tx.Description(),
		RelatedKind:   tx.RelatedKind(),
		RelatedAmount: tx.RelatedAmount(),
	}
}
