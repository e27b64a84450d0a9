package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	model := transactionToModel(transaction)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id ledger.TransactionID, playerKey shared.PlayerKey) (*ledger.Transaction, error) {
	var model TransactionModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND player_key = ?", id.String(), playerKey.Value()).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrTransactionNotFound{
				ID:        id.String(),
				PlayerKey: playerKey.Value(),
			}
		}
		return nil, fmt.Errorf("failed to find transaction: %w", result.Error)
	}

	return modelToTransaction(&model)
}

// FindByPlayer retrieves transactions for a player with optional filtering
func (r *GormTransactionRepository) FindByPlayer(ctx context.Context, playerKey shared.PlayerKey, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	query := r.db.WithContext(ctx).Where("player_key = ?", playerKey.Value())

	query = applyFilters(query, opts)

	orderBy := "timestamp DESC"
	if opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	// id breaks ties between entries written in the same instant
	query = query.Order(orderBy).Order("id")

	// Limit 0 means everything
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TransactionModel
	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", result.Error)
	}

	transactions := make([]*ledger.Transaction, len(models))
	for i := range models {
		tx, err := modelToTransaction(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction model: %w", err)
		}
		transactions[i] = tx
	}

	return transactions, nil
}

// CountByPlayer returns the count of transactions matching the criteria
func (r *GormTransactionRepository) CountByPlayer(ctx context.Context, playerKey shared.PlayerKey, opts ledger.QueryOptions) (int, error) {
	query := r.db.WithContext(ctx).Model(&TransactionModel{}).Where("player_key = ?", playerKey.Value())

	query = applyFilters(query, opts)

	var count int64
	result := query.Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", result.Error)
	}

	return int(count), nil
}

// applyFilters applies query options to a GORM query
func applyFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.StartDate != nil {
		query = query.Where("timestamp >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("timestamp <= ?", *opts.EndDate)
	}

	if opts.Category != nil {
		query = query.Where("category = ?", opts.Category.String())
	}

	if opts.TransactionType != nil {
		query = query.Where("transaction_type = ?", opts.TransactionType.String())
	}

	if opts.RelatedKind != nil {
		query = query.Where("related_kind = ?", *opts.RelatedKind)
	}

	return query
}

// modelToTransaction converts database model to domain entity
func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.ParseTransactionID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID in database: %w", err)
	}

	playerKey, err := shared.NewPlayerKey(model.PlayerKey)
	if err != nil {
		return nil, fmt.Errorf("invalid player key in database: %w", err)
	}

	transactionType, err := ledger.ParseTransactionType(model.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in database: %w", err)
	}

	category, err := ledger.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	return ledger.ReconstructTransaction(
		id,
		playerKey,
		model.Timestamp.UTC(),
		transactionType,
		category,
		rules.Cost{Metal: model.Metal, Crystal: model.Crystal, Deuterium: model.Deuterium},
		model.Description,
		model.RelatedKind,
		model.RelatedAmount,
	), nil
}

// transactionToModel converts domain entity to database model
func transactionToModel(tx *ledger.Transaction) *TransactionModel {
	amounts := tx.Amounts()
	return &TransactionModel{
		ID:              tx.ID().String(),
		PlayerKey:       tx.PlayerKey().Value(),
		Timestamp:       tx.Timestamp(),
		TransactionType: tx.TransactionType().String(),
		Category:        tx.Category().String(),
		Metal:           amounts.Metal,
		Crystal:         amounts.Crystal,
		Deuterium:       amounts.Deuterium,
		Description:     tx.Description(),
		RelatedKind:     tx.RelatedKind(),
		RelatedAmount:   tx.RelatedAmount(),
		CreatedAt:       tx.Timestamp(),
	}
}
