package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
)

// GormUnitOfWork implements colony.UnitOfWork with one GORM transaction per call
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over db
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn inside a transaction; an error or panic in fn rolls everything back
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx colony.Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTx{db: tx})
	})
}

// gormTx binds every repository to the same transaction handle
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Colonies() colony.Repository {
	return NewGormColonyRepository(t.db)
}

func (t *gormTx) Transactions() ledger.TransactionRepository {
	return NewGormTransactionRepository(t.db)
}
