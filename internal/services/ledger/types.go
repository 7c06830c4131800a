package ledger

import (
	"context"

	"nocage/internal/models"
)

// Config holds ledger service configuration.
type Config struct {
	NotifyCreditThreshold int64
}

// TransferRequest describes a wallet-to-wallet movement. Type carries the
// business reason (CAPSULE_PURCHASE, CAPSULE_SALE, ...).
type TransferRequest struct {
	FromUserID  uint
	ToUserID    uint
	Amount      int64
	Type        string
	Description string
	CapsuleID   *uint
}

// ListOptions selects a page of a user's ledger records.
type ListOptions struct {
	Limit  int
	Cursor *uint
	Type   string
}

// Service is the only layer allowed to ask for balance mutations.
type Service interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)

	Credit(ctx context.Context, userID uint, amount int64, description string) error

	// Debit returns false when funds are insufficient. That outcome is
	// normal, not an error; the error return covers real failures only.
	Debit(ctx context.Context, userID uint, amount int64, description string) (bool, error)

	Transfer(ctx context.Context, req TransferRequest) error

	// ListTransactions returns a page plus the cursor for the next one,
	// nil when this was the last page.
	ListTransactions(ctx context.Context, userID uint, opts ListOptions) ([]models.WalletTransaction, *uint, error)
}

// Cache is the balance cache surface the service needs. Nil is allowed
// and disables caching.
type Cache interface {
	GetBalance(ctx context.Context, userID uint) (int64, bool, error)
	SetBalance(ctx context.Context, userID uint, balance int64) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Notifier delivers best-effort user notifications. Implementations must
// swallow and log their own failures.
type Notifier interface {
	WalletCredited(ctx context.Context, userID uint, amount int64)
}
