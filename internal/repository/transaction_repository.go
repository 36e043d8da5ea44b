package repository

import (
	"context"

	"gorm.io/gorm"

	"cardswitch/internal/model"
)

// TransactionRepository defines the append-only audit trail. Records are
// never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	// FindByMaskedCard returns records for a masked card identifier,
	// newest first.
	FindByMaskedCard(ctx context.Context, maskedCard string) ([]model.Transaction, error)
	// FindAll returns every record (admin view).
	FindAll(ctx context.Context) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a MySQL-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindByMaskedCard(ctx context.Context, maskedCard string) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Where("card_number = ?", maskedCard).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).Find(&txns).Error
	return txns, err
}
