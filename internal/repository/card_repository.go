package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/model"
)

// CardRepository defines card account persistence operations. Cards are
// keyed by the digest of the real card number.
type CardRepository interface {
	// FindByHash returns the card for a digest, or ErrCardNotFound.
	FindByHash(ctx context.Context, cardHash string) (*model.Card, error)
	// Save upserts a card keyed by its digest.
	Save(ctx context.Context, card *model.Card) error
	ExistsByHash(ctx context.Context, cardHash string) (bool, error)
	// Count is used only to gate seed-data bootstrap.
	Count(ctx context.Context) (int64, error)
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a MySQL-backed card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) FindByHash(ctx context.Context, cardHash string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("card_hash = ?", cardHash).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) Save(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(card).Error
}

func (r *cardRepository) ExistsByHash(ctx context.Context, cardHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("card_hash = ?", cardHash).Count(&count).Error
	return count > 0, err
}

func (r *cardRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Count(&count).Error
	return count, err
}
