package ledger

import (
	"context"
	"sync"
	"testing"

	domain "nocage/internal/errors"
	"nocage/internal/models"
	"nocage/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func (m *mockNotifier) WalletCredited(ctx context.Context, userID uint, amount int64) {
	m.Called(ctx, userID, amount)
}

func TestService_Credit(t *testing.T) {
	tests := []struct {
		name      string
		userID    uint
		amount    int64
		setupMock func(*mockLedgerRepo, *mockNotifier)
		wantErr   error
	}{
		{
			name:   "successful credit records ADD_MONEY",
			userID: 1,
			amount: 1000,
			setupMock: func(repo *mockLedgerRepo, n *mockNotifier) {
				repo.On("Credit", mock.Anything, uint(1), int64(1000),
					mock.MatchedBy(func(r *models.WalletTransaction) bool {
						return r.ToUserID != nil && *r.ToUserID == 1 &&
							r.Amount == 1000 &&
							r.Type == models.TransactionTypeAddMoney &&
							r.Status == models.TransactionStatusCompleted
					})).Return(nil)
				n.On("WalletCredited", mock.Anything, uint(1), int64(1000)).Return()
			},
		},
		{
			name:    "zero amount rejected",
			userID:  1,
			amount:  0,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			userID:  1,
			amount:  -100,
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLedgerRepo)
			notifier := new(mockNotifier)
			if tt.setupMock != nil {
				tt.setupMock(repo, notifier)
			}

			s := NewService(repo, nil, notifier, Config{}, nil)
			err := s.Credit(context.Background(), tt.userID, tt.amount, "topup")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_Credit_NotificationThreshold(t *testing.T) {
	repo := new(mockLedgerRepo)
	notifier := new(mockNotifier)
	repo.On("Credit", mock.Anything, uint(1), int64(100), mock.Anything).Return(nil)

	// 100 paise is below the default 500-paise threshold: no notification.
	s := NewService(repo, nil, notifier, Config{}, nil)
	err := s.Credit(context.Background(), 1, 100, "small topup")

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "WalletCredited", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Debit(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		setupMock func(*mockLedgerRepo)
		wantOK    bool
		wantErr   error
	}{
		{
			name:   "successful debit records PAYOUT",
			amount: 500,
			setupMock: func(repo *mockLedgerRepo) {
				repo.On("Debit", mock.Anything, uint(1), int64(500),
					mock.MatchedBy(func(r *models.WalletTransaction) bool {
						return r.FromUserID != nil && *r.FromUserID == 1 &&
							r.Type == models.TransactionTypePayout
					})).Return(true, nil)
			},
			wantOK: true,
		},
		{
			name:   "insufficient funds is not an error",
			amount: 1500,
			setupMock: func(repo *mockLedgerRepo) {
				repo.On("Debit", mock.Anything, uint(1), int64(1500), mock.Anything).
					Return(false, nil)
			},
			wantOK: false,
		},
		{
			name:    "invalid amount rejected",
			amount:  -5,
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLedgerRepo)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			s := NewService(repo, nil, nil, Config{}, nil)
			ok, err := s.Debit(context.Background(), 1, tt.amount, "payout")

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Transfer(t *testing.T) {
	tests := []struct {
		name      string
		req       TransferRequest
		setupMock func(*mockLedgerRepo)
		wantErr   error
	}{
		{
			name: "successful capsule purchase",
			req: TransferRequest{
				FromUserID: 1, ToUserID: 2, Amount: 2500,
				Type: models.TransactionTypeCapsulePurchase,
			},
			setupMock: func(repo *mockLedgerRepo) {
				repo.On("Transfer", mock.Anything, uint(1), uint(2), int64(2500),
					mock.MatchedBy(func(r *models.WalletTransaction) bool {
						return r.FromUserID != nil && *r.FromUserID == 1 &&
							r.ToUserID != nil && *r.ToUserID == 2 &&
							r.Type == models.TransactionTypeCapsulePurchase &&
							r.Reference != ""
					})).Return(nil)
			},
		},
		{
			name:    "self transfer rejected",
			req:     TransferRequest{FromUserID: 1, ToUserID: 1, Amount: 100},
			wantErr: domain.ErrSelfTransfer,
		},
		{
			name:    "invalid amount rejected",
			req:     TransferRequest{FromUserID: 1, ToUserID: 2, Amount: 0},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "insufficient funds surfaces as domain error",
			req:  TransferRequest{FromUserID: 1, ToUserID: 2, Amount: 9999},
			setupMock: func(repo *mockLedgerRepo) {
				repo.On("Transfer", mock.Anything, uint(1), uint(2), int64(9999), mock.Anything).
					Return(repositories.ErrInsufficientBalance)
			},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLedgerRepo)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			s := NewService(repo, nil, nil, Config{}, nil)
			err := s.Transfer(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GetBalance_MissingWalletReadsZero(t *testing.T) {
	repo := new(mockLedgerRepo)
	repo.On("GetWalletByUserID", mock.Anything, uint(7)).
		Return(nil, repositories.ErrWalletNotFound)

	s := NewService(repo, nil, nil, Config{}, nil)
	balance, err := s.GetBalance(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	// A pure read must not create the wallet.
	repo.AssertNotCalled(t, "EnsureWallet", mock.Anything, mock.Anything)
}

func TestService_ListTransactions_Cursor(t *testing.T) {
	repo := new(mockLedgerRepo)
	// Three rows back for limit 2 means another page exists.
	repo.On("ListTransactions", mock.Anything, uint(1),
		repositories.TransactionFilter{Limit: 3}).
		Return([]models.WalletTransaction{{ID: 9}, {ID: 8}, {ID: 7}}, nil)

	s := NewService(repo, nil, nil, Config{}, nil)
	records, nextCursor, err := s.ListTransactions(context.Background(), 1, ListOptions{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, records, 2)
	require.NotNil(t, nextCursor)
	assert.Equal(t, uint(8), *nextCursor)
}

func TestService_ListTransactions_LastPage(t *testing.T) {
	repo := new(mockLedgerRepo)
	repo.On("ListTransactions", mock.Anything, uint(1),
		repositories.TransactionFilter{Limit: 21}).
		Return([]models.WalletTransaction{{ID: 2}, {ID: 1}}, nil)

	s := NewService(repo, nil, nil, Config{}, nil)
	records, nextCursor, err := s.ListTransactions(context.Background(), 1, ListOptions{})

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Nil(t, nextCursor)
}

// fakeLedgerRepo applies the same conditional-debit semantics as the SQL
// implementation: subtract only if the balance covers the amount, under a
// lock.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	balances map[uint]int64
	records  []models.WalletTransaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{balances: make(map[uint]int64)}
}

func (f *fakeLedgerRepo) GetWalletByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &models.Wallet{UserID: userID, Balance: balance}, nil
}

func (f *fakeLedgerRepo) EnsureWallet(_ context.Context, userID uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[userID]; !ok {
		f.balances[userID] = 0
	}
	return &models.Wallet{UserID: userID, Balance: f.balances[userID]}, nil
}

func (f *fakeLedgerRepo) Credit(_ context.Context, userID uint, amount int64, record *models.WalletTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeLedgerRepo) Debit(_ context.Context, userID uint, amount int64, record *models.WalletTransaction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[userID] < amount {
		return false, nil
	}
	f.balances[userID] -= amount
	f.records = append(f.records, *record)
	return true, nil
}

func (f *fakeLedgerRepo) Transfer(_ context.Context, fromUserID, toUserID uint, amount int64, record *models.WalletTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[fromUserID] < amount {
		return repositories.ErrInsufficientBalance
	}
	f.balances[fromUserID] -= amount
	f.balances[toUserID] += amount
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeLedgerRepo) ListTransactions(_ context.Context, _ uint, _ repositories.TransactionFilter) ([]models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.WalletTransaction(nil), f.records...), nil
}

func TestService_ConcurrentDebits(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.balances[1] = 100

	s := NewService(repo, nil, nil, Config{}, nil)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.Debit(context.Background(), 1, 80, "concurrent")
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	// Exactly one debit wins; balance never goes negative.
	assert.NotEqual(t, results[0], results[1])
	assert.Equal(t, int64(20), repo.balances[1])
	assert.Len(t, repo.records, 1)
}

func TestService_ConservationUnderTransfer(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.balances[1] = 1000
	repo.balances[2] = 250

	s := NewService(repo, nil, nil, Config{}, nil)
	err := s.Transfer(context.Background(), TransferRequest{
		FromUserID: 1, ToUserID: 2, Amount: 400,
		Type: models.TransactionTypeCapsulePurchase,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(600), repo.balances[1])
	assert.Equal(t, int64(650), repo.balances[2])
	assert.Equal(t, int64(1250), repo.balances[1]+repo.balances[2])
}
