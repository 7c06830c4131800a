package repositories

import (
	"fmt"
	"time"

	"nocage/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// creditWalletTx upserts the wallet and increments its balance inside the
// caller's transaction. Creating the row on first credit is what makes
// wallets lazy.
func creditWalletTx(tx *gorm.DB, userID uint, amount int64) error {
	wallet := models.Wallet{UserID: userID, Balance: amount}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("wallets.balance + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&wallet).Error
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}

// debitWalletTx decrements the balance with a single conditional update.
// The WHERE clause carries the sufficient-funds check, so two concurrent
// debits can never both succeed against the same funds; the affected-row
// count is the success signal. A missing wallet debits like a zero balance.
func debitWalletTx(tx *gorm.DB, userID uint, amount int64) (bool, error) {
	res := tx.Model(&models.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to debit wallet: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// insertTransactionTx appends the ledger record inside the caller's
// transaction. Callers must only invoke this next to the balance mutation
// it records.
func insertTransactionTx(tx *gorm.DB, record *models.WalletTransaction) error {
	if record.Status == "" {
		record.Status = models.TransactionStatusCompleted
	}
	if err := tx.Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert wallet transaction: %w", err)
	}
	return nil
}
