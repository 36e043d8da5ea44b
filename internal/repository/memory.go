package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/model"
)

// In-memory repository implementations. They back unit tests and local
// runs without MySQL, and honor the same contracts as the gorm versions.

type memoryCardRepository struct {
	mu    sync.RWMutex
	cards map[string]model.Card
}

// NewMemoryCardRepository creates an in-memory card repository.
func NewMemoryCardRepository() CardRepository {
	return &memoryCardRepository{cards: make(map[string]model.Card)}
}

func (r *memoryCardRepository) FindByHash(ctx context.Context, cardHash string) (*model.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[cardHash]
	if !ok {
		return nil, apperrors.ErrCardNotFound
	}
	return &card, nil
}

func (r *memoryCardRepository) Save(ctx context.Context, card *model.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *card
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	r.cards[stored.CardHash] = stored
	return nil
}

func (r *memoryCardRepository) ExistsByHash(ctx context.Context, cardHash string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cards[cardHash]
	return ok, nil
}

func (r *memoryCardRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.cards)), nil
}

type memoryTransactionRepository struct {
	mu   sync.RWMutex
	txns []model.Transaction
}

// NewMemoryTransactionRepository creates an in-memory transaction log.
func NewMemoryTransactionRepository() TransactionRepository {
	return &memoryTransactionRepository{}
}

func (r *memoryTransactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	r.txns = append(r.txns, *txn)
	return nil
}

// FindByMaskedCard walks the log backwards so that records come out
// newest first even when timestamps collide.
func (r *memoryTransactionRepository) FindByMaskedCard(ctx context.Context, maskedCard string) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]model.Transaction, 0)
	for i := len(r.txns) - 1; i >= 0; i-- {
		if r.txns[i].CardNumber == maskedCard {
			matches = append(matches, r.txns[i])
		}
	}
	return matches, nil
}

func (r *memoryTransactionRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]model.Transaction, len(r.txns))
	copy(all, r.txns)
	return all, nil
}
