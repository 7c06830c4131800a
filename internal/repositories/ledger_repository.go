package repositories

import (
	"context"

	"nocage/internal/models"
)

// TransactionFilter selects a page of ledger records. Cursor is an
// exclusive upper bound on id; pages run newest first.
type TransactionFilter struct {
	Limit  int
	Cursor *uint
	Type   string
}

// LedgerRepository is the only path that mutates wallet balances. Every
// mutating method pairs the balance change with exactly one
// WalletTransaction row in a single database transaction.
type LedgerRepository interface {
	GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Credit increments the balance, creating the wallet if absent.
	Credit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) error

	// Debit decrements the balance if sufficient funds exist. Returns
	// false (with no mutation and no record) when they don't.
	Debit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) (bool, error)

	// Transfer moves amount between two wallets and records one
	// two-party row. Returns ErrInsufficientBalance when the sender
	// can't cover it.
	Transfer(ctx context.Context, fromUserID, toUserID uint, amount int64, record *models.WalletTransaction) error

	ListTransactions(ctx context.Context, userID uint, filter TransactionFilter) ([]models.WalletTransaction, error)
}
