package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"cardswitch/internal/cache"
	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/hashutil"
	"cardswitch/internal/model"
	"cardswitch/internal/repository"
)

// Outcome is the result of one processing attempt. Declines are outcomes,
// not errors; TransactionID and Balance are set only on success.
type Outcome struct {
	Success       bool
	Message       string
	TransactionID string
	Balance       *decimal.Decimal
}

// Decline reasons, surfaced verbatim in responses and audit records.
const (
	ReasonInvalidCard         = "Invalid card"
	ReasonInvalidPIN          = "Invalid PIN"
	ReasonInsufficientBalance = "Insufficient balance"
	ReasonInvalidType         = "Invalid type"
	MessageApproved           = "Approved"
)

// ProcessingService is the core ledger processor: it authenticates the
// cardholder, evaluates the balance rule for the requested kind, mutates
// the balance and appends exactly one audit record per attempt.
type ProcessingService interface {
	Process(ctx context.Context, cardNumber, pin string, amount decimal.Decimal, kind string) (*Outcome, error)
}

type processingService struct {
	cards repository.CardRepository
	txns  repository.TransactionRepository
	cache *cache.Client
	// Mutex map for per-card locking
	cardLocks sync.Map
}

// NewProcessingService creates the ledger processor.
func NewProcessingService(
	cards repository.CardRepository,
	txns repository.TransactionRepository,
	cache *cache.Client,
) ProcessingService {
	return &processingService{
		cards: cards,
		txns:  txns,
		cache: cache,
	}
}

// getLock returns the mutex serializing mutations for one card digest.
// Different cards proceed fully concurrently; the same card never
// interleaves its read-modify-write with another request.
func (s *processingService) getLock(cardHash string) *sync.Mutex {
	value, _ := s.cardLocks.LoadOrStore(cardHash, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Process runs one complete attempt: digest lookup, PIN check, rule
// evaluation, commit. Every exit path appends one transaction record
// before returning. A non-nil error means infrastructure failure (store
// or log unreachable); the attempt is aborted and nothing partial is
// logged.
func (s *processingService) Process(ctx context.Context, cardNumber, pin string, amount decimal.Decimal, kind string) (*Outcome, error) {
	// Kind is parsed up front so declines can still log it, but it is
	// not judged until after card and PIN: a wrong PIN must not leak
	// whether the kind or balance would have been acceptable.
	txnType, kindOK := model.ParseTxnType(kind)
	masked := MaskCardNumber(cardNumber)

	cardHash := hashutil.Digest(cardNumber)
	lock := s.getLock(cardHash)
	lock.Lock()
	defer lock.Unlock()

	card, err := s.cards.FindByHash(ctx, cardHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrCardNotFound) {
			// Audit-everything: the attempt is recorded with the
			// caller-supplied amount and kind even though no account
			// exists.
			return s.decline(ctx, masked, txnType, amount, ReasonInvalidCard)
		}
		return nil, fmt.Errorf("find card: %w", err)
	}

	if hashutil.Digest(pin) != card.PINHash {
		return s.decline(ctx, masked, txnType, amount, ReasonInvalidPIN)
	}

	var newBalance decimal.Decimal
	switch {
	case !kindOK:
		// Callers validate the kind, but they are untrusted.
		return s.decline(ctx, masked, txnType, amount, ReasonInvalidType)
	case txnType == model.TxnTypeWithdraw:
		if card.Balance.LessThan(amount) {
			return s.decline(ctx, masked, txnType, amount, ReasonInsufficientBalance)
		}
		newBalance = card.Balance.Sub(amount)
	default: // TOPUP, no upper bound
		newBalance = card.Balance.Add(amount)
	}

	card.Balance = newBalance
	if err := s.cards.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("save balance: %w", err)
	}

	txn := &model.Transaction{
		CardNumber:   masked,
		Type:         txnType,
		Amount:       amount,
		Status:       model.TxnStatusSuccess,
		BalanceAfter: &newBalance,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("log transaction: %w", err)
	}

	_ = s.cache.Delete(ctx, balanceCacheKey(cardHash))

	return &Outcome{
		Success:       true,
		Message:       MessageApproved,
		TransactionID: txn.ID.String(),
		Balance:       &newBalance,
	}, nil
}

// decline appends a DECLINED record and returns the matching outcome.
// BalanceAfter stays unset; the balance is untouched on every decline.
func (s *processingService) decline(ctx context.Context, masked string, txnType model.TxnType, amount decimal.Decimal, reason string) (*Outcome, error) {
	txn := &model.Transaction{
		CardNumber:    masked,
		Type:          txnType,
		Amount:        amount,
		Status:        model.TxnStatusDeclined,
		DeclineReason: reason,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("log declined transaction: %w", err)
	}
	return &Outcome{Success: false, Message: reason}, nil
}

func balanceCacheKey(cardHash string) string {
	return "balance:" + cardHash
}
