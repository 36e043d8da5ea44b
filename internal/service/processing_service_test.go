package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/hashutil"
	"cardswitch/internal/model"
	"cardswitch/internal/repository"
)

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByHash(ctx context.Context, cardHash string) (*model.Card, error) {
	args := m.Called(ctx, cardHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) Save(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) ExistsByHash(ctx context.Context, cardHash string) (bool, error) {
	args := m.Called(ctx, cardHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByMaskedCard(ctx context.Context, maskedCard string) ([]model.Transaction, error) {
	args := m.Called(ctx, maskedCard)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

const (
	testCardNumber = "4123456789012345"
	testPIN        = "1234"
)

func seededCard(balance string) *model.Card {
	return &model.Card{
		CardHash: hashutil.Digest(testCardNumber),
		PINHash:  hashutil.Digest(testPIN),
		Balance:  decimal.RequireFromString(balance),
	}
}

func TestProcess_Declines(t *testing.T) {
	tests := []struct {
		name            string
		cardNumber      string
		pin             string
		amount          string
		kind            string
		setupMock       func(*MockCardRepository)
		expectedMessage string
		expectedType    model.TxnType
	}{
		{
			name:       "unknown card",
			cardNumber: "4999888877776666",
			pin:        "0000",
			amount:     "10.00",
			kind:       "withdraw",
			setupMock: func(m *MockCardRepository) {
				m.On("FindByHash", mock.Anything, hashutil.Digest("4999888877776666")).
					Return(nil, apperrors.ErrCardNotFound)
			},
			expectedMessage: ReasonInvalidCard,
			expectedType:    model.TxnTypeWithdraw,
		},
		{
			name:       "wrong PIN",
			cardNumber: testCardNumber,
			pin:        "0000",
			amount:     "10.00",
			kind:       "withdraw",
			setupMock: func(m *MockCardRepository) {
				m.On("FindByHash", mock.Anything, hashutil.Digest(testCardNumber)).
					Return(seededCard("5000.00"), nil)
			},
			expectedMessage: ReasonInvalidPIN,
			expectedType:    model.TxnTypeWithdraw,
		},
		{
			name:       "insufficient balance",
			cardNumber: testCardNumber,
			pin:        testPIN,
			amount:     "9999999.00",
			kind:       "withdraw",
			setupMock: func(m *MockCardRepository) {
				m.On("FindByHash", mock.Anything, hashutil.Digest(testCardNumber)).
					Return(seededCard("5000.00"), nil)
			},
			expectedMessage: ReasonInsufficientBalance,
			expectedType:    model.TxnTypeWithdraw,
		},
		{
			name:       "unrecognized kind",
			cardNumber: testCardNumber,
			pin:        testPIN,
			amount:     "10.00",
			kind:       "transfer",
			setupMock: func(m *MockCardRepository) {
				m.On("FindByHash", mock.Anything, hashutil.Digest(testCardNumber)).
					Return(seededCard("5000.00"), nil)
			},
			expectedMessage: ReasonInvalidType,
			expectedType:    model.TxnType(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCards := new(MockCardRepository)
			mockTxns := new(MockTransactionRepository)
			tt.setupMock(mockCards)

			amount := decimal.RequireFromString(tt.amount)
			mockTxns.On("Create", mock.Anything, mock.MatchedBy(func(txn *model.Transaction) bool {
				return txn.Status == model.TxnStatusDeclined &&
					txn.DeclineReason == tt.expectedMessage &&
					txn.Type == tt.expectedType &&
					txn.Amount.Equal(amount) &&
					txn.BalanceAfter == nil &&
					txn.CardNumber == MaskCardNumber(tt.cardNumber)
			})).Return(nil).Once()

			svc := NewProcessingService(mockCards, mockTxns, nil)
			out, err := svc.Process(context.Background(), tt.cardNumber, tt.pin, amount, tt.kind)

			require.NoError(t, err)
			assert.False(t, out.Success)
			assert.Equal(t, tt.expectedMessage, out.Message)
			assert.Empty(t, out.TransactionID)
			assert.Nil(t, out.Balance)

			// Declines never mutate balance.
			mockCards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			mockCards.AssertExpectations(t)
			mockTxns.AssertExpectations(t)
		})
	}
}

func TestProcess_TopupSuccess(t *testing.T) {
	cards := repository.NewMemoryCardRepository()
	txns := repository.NewMemoryTransactionRepository()
	require.NoError(t, cards.Save(context.Background(), seededCard("5000.00")))

	svc := NewProcessingService(cards, txns, nil)
	out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("50.00"), "topup")

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, MessageApproved, out.Message)
	assert.NotEmpty(t, out.TransactionID)
	require.NotNil(t, out.Balance)
	assert.True(t, out.Balance.Equal(decimal.RequireFromString("5050.00")))

	stored, err := cards.FindByHash(context.Background(), hashutil.Digest(testCardNumber))
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("5050.00")))

	records, err := txns.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.TxnStatusSuccess, records[0].Status)
	assert.Equal(t, model.TxnTypeTopup, records[0].Type)
	assert.Empty(t, records[0].DeclineReason)
	require.NotNil(t, records[0].BalanceAfter)
	assert.True(t, records[0].BalanceAfter.Equal(decimal.RequireFromString("5050.00")))
}

func TestProcess_WithdrawSuccess(t *testing.T) {
	cards := repository.NewMemoryCardRepository()
	txns := repository.NewMemoryTransactionRepository()
	require.NoError(t, cards.Save(context.Background(), seededCard("5050.00")))

	svc := NewProcessingService(cards, txns, nil)
	out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("50.00"), "WITHDRAW")

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.TransactionID)
	require.NotNil(t, out.Balance)
	assert.True(t, out.Balance.Equal(decimal.RequireFromString("5000.00")))

	stored, err := cards.FindByHash(context.Background(), hashutil.Digest(testCardNumber))
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("5000.00")))
}

func TestProcess_KindIsCaseInsensitive(t *testing.T) {
	cards := repository.NewMemoryCardRepository()
	txns := repository.NewMemoryTransactionRepository()
	require.NoError(t, cards.Save(context.Background(), seededCard("100.00")))

	svc := NewProcessingService(cards, txns, nil)
	for _, kind := range []string{"Topup", "TOPUP", "topup"} {
		out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("1.00"), kind)
		require.NoError(t, err)
		assert.True(t, out.Success, "kind %q should be accepted", kind)
	}
}

func TestProcess_InfrastructureFailure(t *testing.T) {
	mockCards := new(MockCardRepository)
	mockTxns := new(MockTransactionRepository)
	mockCards.On("FindByHash", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := NewProcessingService(mockCards, mockTxns, nil)
	out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("10.00"), "withdraw")

	require.Error(t, err)
	assert.Nil(t, out)
	// The attempt aborts without a partial audit record.
	mockTxns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// The per-card lock must serialize concurrent read-modify-write cycles:
// no record may be lost and the final balance must equal the initial
// balance plus top-ups minus withdrawals.
func TestProcess_ConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	cards := repository.NewMemoryCardRepository()
	txns := repository.NewMemoryTransactionRepository()
	require.NoError(t, cards.Save(context.Background(), seededCard("5000.00")))

	svc := NewProcessingService(cards, txns, nil)

	const pairs = 25
	var wg sync.WaitGroup
	errs := make(chan error, pairs*2)
	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("10.00"), "topup")
			if err != nil {
				errs <- err
				return
			}
			if !out.Success {
				errs <- errors.New("topup declined: " + out.Message)
			}
		}()
		go func() {
			defer wg.Done()
			out, err := svc.Process(context.Background(), testCardNumber, testPIN, decimal.RequireFromString("10.00"), "withdraw")
			if err != nil {
				errs <- err
				return
			}
			if !out.Success {
				errs <- errors.New("withdraw declined: " + out.Message)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	stored, err := cards.FindByHash(context.Background(), hashutil.Digest(testCardNumber))
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("5000.00")),
		"balance drifted to %s", stored.Balance)

	records, err := txns.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, pairs*2, "every attempt must leave exactly one record")
}
