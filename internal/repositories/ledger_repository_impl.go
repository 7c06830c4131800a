package repositories

import (
	"context"
	"errors"
	"fmt"

	"nocage/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := models.Wallet{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&wallet).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure wallet: %w", err)
	}
	// Re-read: on conflict the insert returns no row.
	return r.GetWalletByUserID(ctx, userID)
}

func (r *ledgerRepository) Credit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := creditWalletTx(tx, userID, amount); err != nil {
			return err
		}
		return insertTransactionTx(tx, record)
	})
}

func (r *ledgerRepository) Debit(ctx context.Context, userID uint, amount int64, record *models.WalletTransaction) (bool, error) {
	ok := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debited, err := debitWalletTx(tx, userID, amount)
		if err != nil {
			return err
		}
		if !debited {
			// Insufficient funds: commit nothing, record nothing.
			return nil
		}
		if err := insertTransactionTx(tx, record); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

func (r *ledgerRepository) Transfer(ctx context.Context, fromUserID, toUserID uint, amount int64, record *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debited, err := debitWalletTx(tx, fromUserID, amount)
		if err != nil {
			return err
		}
		if !debited {
			return ErrInsufficientBalance
		}
		if err := creditWalletTx(tx, toUserID, amount); err != nil {
			return err
		}
		return insertTransactionTx(tx, record)
	})
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, userID uint, filter TransactionFilter) ([]models.WalletTransaction, error) {
	q := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Cursor != nil {
		q = q.Where("id < ?", *filter.Cursor)
	}

	var records []models.WalletTransaction
	err := q.Order("id DESC").Limit(filter.Limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, nil
}
