package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"cardswitch/internal/cache"
	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/hashutil"
	"cardswitch/internal/model"
	"cardswitch/internal/repository"
)

// balanceCacheTTL bounds staleness of cached balances; successful
// mutations invalidate eagerly.
const balanceCacheTTL = time.Minute

// QueryService serves the read-only surface over the same store and log
// the processor writes to.
type QueryService interface {
	// Balance returns the current balance, or zero for an unknown card.
	Balance(ctx context.Context, cardNumber string) (decimal.Decimal, error)
	// History returns the card's records newest first, or an empty slice
	// for an unknown card.
	History(ctx context.Context, cardNumber string) ([]model.Transaction, error)
	// AllTransactions is the unfiltered admin listing.
	AllTransactions(ctx context.Context) ([]model.Transaction, error)
}

type queryService struct {
	cards repository.CardRepository
	txns  repository.TransactionRepository
	cache *cache.Client
}

// NewQueryService creates the read-only query service.
func NewQueryService(
	cards repository.CardRepository,
	txns repository.TransactionRepository,
	cache *cache.Client,
) QueryService {
	return &queryService{cards: cards, txns: txns, cache: cache}
}

func (s *queryService) Balance(ctx context.Context, cardNumber string) (decimal.Decimal, error) {
	cardHash := hashutil.Digest(cardNumber)

	if cached, _ := s.cache.Get(ctx, balanceCacheKey(cardHash)); cached != nil {
		if balance, err := decimal.NewFromString(string(cached)); err == nil {
			return balance, nil
		}
	}

	card, err := s.cards.FindByHash(ctx, cardHash)
	if err != nil {
		// Unknown card reads as zero, not as an error.
		if errors.Is(err, apperrors.ErrCardNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	_ = s.cache.Set(ctx, balanceCacheKey(cardHash), []byte(card.Balance.String()), balanceCacheTTL)
	return card.Balance, nil
}

func (s *queryService) History(ctx context.Context, cardNumber string) ([]model.Transaction, error) {
	cardHash := hashutil.Digest(cardNumber)
	exists, err := s.cards.ExistsByHash(ctx, cardHash)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []model.Transaction{}, nil
	}
	return s.txns.FindByMaskedCard(ctx, MaskCardNumber(cardNumber))
}

func (s *queryService) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.txns.FindAll(ctx)
}
