package payout

import (
	"context"
	"testing"

	domain "nocage/internal/errors"
	"nocage/internal/models"
	"nocage/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPayoutRepo struct {
	mock.Mock
}

func (m *mockPayoutRepo) Create(ctx context.Context, payout *models.PayoutRequest) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *mockPayoutRepo) GetByID(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) ListByUser(ctx context.Context, userID uint, filter repositories.PayoutFilter) ([]models.PayoutRequest, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) ListAll(ctx context.Context, filter repositories.PayoutFilter) ([]models.PayoutRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) Process(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) MarkCompleted(ctx context.Context, id uint, externalRef string) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *mockPayoutRepo) MarkFailed(ctx context.Context, id uint, reason string) (*models.PayoutRequest, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockLedgerRepo) EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockLedgerRepo) Credit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) error {
	args := m.Called(ctx, userID, amount, record)
	return args.Error(0)
}

func (m *mockLedgerRepo) Debit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) (bool, error) {
	args := m.Called(ctx, userID, amount, record)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedgerRepo) Transfer(ctx context.Context, fromUserID, toUserID uint, amount int64, record *models.WalletTransaction) error {
	args := m.Called(ctx, fromUserID, toUserID, amount, record)
	return args.Error(0)
}

func (m *mockLedgerRepo) ListTransactions(ctx context.Context, userID uint, filter repositories.TransactionFilter) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PayoutUpdate(ctx context.Context, userID uint, payoutID uint, status, reason string) {
	m.Called(ctx, userID, payoutID, status, reason)
}

func bankRequest(amount int64) Request {
	return Request{
		UserID:        1,
		Amount:        amount,
		BankAccount:   "123456789012",
		IfscCode:      "HDFC0001234",
		AccountHolder: "Asha Rao",
	}
}

func TestService_Request_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "below minimum amount",
			req:     bankRequest(999),
			wantErr: domain.ErrBelowMinimum,
		},
		{
			name: "missing account holder",
			req: Request{
				UserID: 1, Amount: 5_000,
				BankAccount: "123456789012", IfscCode: "HDFC0001234",
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "no destination",
			req: Request{
				UserID: 1, Amount: 5_000, AccountHolder: "Asha Rao",
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "both bank and UPI destinations",
			req: Request{
				UserID: 1, Amount: 5_000, AccountHolder: "Asha Rao",
				BankAccount: "123456789012", IfscCode: "HDFC0001234",
				UpiID: "asha@ybl",
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "bank account without IFSC",
			req: Request{
				UserID: 1, Amount: 5_000, AccountHolder: "Asha Rao",
				BankAccount: "123456789012",
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "malformed IFSC",
			req: Request{
				UserID: 1, Amount: 5_000, AccountHolder: "Asha Rao",
				BankAccount: "123456789012", IfscCode: "HDFC1234",
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "malformed UPI id",
			req: Request{
				UserID: 1, Amount: 5_000, AccountHolder: "Asha Rao",
				UpiID: "not a vpa",
			},
			wantErr: domain.ErrInvalidUpiFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockPayoutRepo)
			ledger := new(mockLedgerRepo)

			s := NewService(repo, ledger, nil)
			_, err := s.Request(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Request_AdvisoryBalanceCheck(t *testing.T) {
	t.Run("balance too low", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		ledger := new(mockLedgerRepo)
		ledger.On("GetWalletByUserID", mock.Anything, uint(1)).
			Return(&models.Wallet{UserID: 1, Balance: 4_999}, nil)

		s := NewService(repo, ledger, nil)
		_, err := s.Request(context.Background(), bankRequest(5_000))

		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("no wallet yet", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		ledger := new(mockLedgerRepo)
		ledger.On("GetWalletByUserID", mock.Anything, uint(1)).
			Return(nil, repositories.ErrWalletNotFound)

		s := NewService(repo, ledger, nil)
		_, err := s.Request(context.Background(), bankRequest(5_000))

		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("sufficient balance creates PENDING request", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		ledger := new(mockLedgerRepo)
		ledger.On("GetWalletByUserID", mock.Anything, uint(1)).
			Return(&models.Wallet{UserID: 1, Balance: 10_000}, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.PayoutRequest) bool {
			return p.Status == models.PayoutStatusPending && p.Amount == 5_000
		})).Return(nil)

		s := NewService(repo, ledger, nil)
		payout, err := s.Request(context.Background(), bankRequest(5_000))

		require.NoError(t, err)
		assert.Equal(t, models.PayoutStatusPending, payout.Status)
		repo.AssertExpectations(t)
	})
}

func TestService_Process(t *testing.T) {
	t.Run("success notifies with PROCESSING", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		ledger := new(mockLedgerRepo)
		notifier := new(mockNotifier)
		processed := &models.PayoutRequest{ID: 7, UserID: 1, Amount: 5_000, Status: models.PayoutStatusProcessing}
		repo.On("Process", mock.Anything, uint(7)).Return(processed, nil)
		notifier.On("PayoutUpdate", mock.Anything, uint(1), uint(7), models.PayoutStatusProcessing, "").Return()

		s := NewService(repo, ledger, notifier)
		got, err := s.Process(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, models.PayoutStatusProcessing, got.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("balance no longer covers the amount", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		repo.On("Process", mock.Anything, uint(7)).
			Return(nil, repositories.ErrInsufficientBalance)

		s := NewService(repo, new(mockLedgerRepo), nil)
		_, err := s.Process(context.Background(), 7)

		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("already processed", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		repo.On("Process", mock.Anything, uint(7)).
			Return(nil, repositories.ErrInvalidTransition)

		s := NewService(repo, new(mockLedgerRepo), nil)
		_, err := s.Process(context.Background(), 7)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("unknown payout", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		repo.On("Process", mock.Anything, uint(404)).
			Return(nil, repositories.ErrPayoutNotFound)

		s := NewService(repo, new(mockLedgerRepo), nil)
		_, err := s.Process(context.Background(), 404)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_MarkCompleted(t *testing.T) {
	repo := new(mockPayoutRepo)
	notifier := new(mockNotifier)
	completed := &models.PayoutRequest{
		ID: 7, UserID: 1, Status: models.PayoutStatusCompleted, ExternalRef: "BANKREF42",
	}
	repo.On("MarkCompleted", mock.Anything, uint(7), "BANKREF42").Return(completed, nil)
	notifier.On("PayoutUpdate", mock.Anything, uint(1), uint(7), models.PayoutStatusCompleted, "").Return()

	s := NewService(repo, new(mockLedgerRepo), notifier)
	got, err := s.MarkCompleted(context.Background(), 7, "BANKREF42")

	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, got.Status)
	notifier.AssertExpectations(t)
}

func TestService_MarkFailed(t *testing.T) {
	t.Run("failure carries the reason to the notifier", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		notifier := new(mockNotifier)
		failed := &models.PayoutRequest{
			ID: 7, UserID: 1, Status: models.PayoutStatusFailed, Reason: "bank rejected",
		}
		repo.On("MarkFailed", mock.Anything, uint(7), "bank rejected").Return(failed, nil)
		notifier.On("PayoutUpdate", mock.Anything, uint(1), uint(7), models.PayoutStatusFailed, "bank rejected").Return()

		s := NewService(repo, new(mockLedgerRepo), notifier)
		got, err := s.MarkFailed(context.Background(), 7, "bank rejected")

		require.NoError(t, err)
		assert.Equal(t, models.PayoutStatusFailed, got.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("only PROCESSING payouts can fail", func(t *testing.T) {
		repo := new(mockPayoutRepo)
		repo.On("MarkFailed", mock.Anything, uint(7), "late").
			Return(nil, repositories.ErrInvalidTransition)

		s := NewService(repo, new(mockLedgerRepo), nil)
		_, err := s.MarkFailed(context.Background(), 7, "late")

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestService_ListByUser_Cursor(t *testing.T) {
	repo := new(mockPayoutRepo)
	repo.On("ListByUser", mock.Anything, uint(1), repositories.PayoutFilter{Limit: 3}).
		Return([]models.PayoutRequest{{ID: 12}, {ID: 11}, {ID: 10}}, nil)

	s := NewService(repo, new(mockLedgerRepo), nil)
	payouts, nextCursor, err := s.ListByUser(context.Background(), 1, ListOptions{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, payouts, 2)
	require.NotNil(t, nextCursor)
	assert.Equal(t, uint(11), *nextCursor)
}
