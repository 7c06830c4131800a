package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeAddMoney        = "ADD_MONEY"
	TransactionTypeCapsulePurchase = "CAPSULE_PURCHASE"
	TransactionTypeCapsuleSale     = "CAPSULE_SALE"
	TransactionTypeRefund          = "REFUND"
	TransactionTypePayout          = "PAYOUT"
)

// Transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// WalletTransaction is the append-only ledger record. Rows are never
// updated after creation; every wallet balance change writes exactly one
// row in the same database transaction as the balance mutation.
type WalletTransaction struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	FromUserID  *uint  `gorm:"index" json:"from_user_id,omitempty"`
	ToUserID    *uint  `gorm:"index" json:"to_user_id,omitempty"`
	Amount      int64  `gorm:"not null;check:amount > 0" json:"amount"`
	Type        string `gorm:"not null;index" json:"type"`
	Status      string `gorm:"not null;default:'COMPLETED'" json:"status"`
	Description string `json:"description"`
	CapsuleID   *uint  `json:"capsule_id,omitempty"`

	// Reference correlates related rows (e.g. a payout debit and its
	// refund) so an audit can pair them without a schema change.
	Reference string `gorm:"index" json:"reference"`

	CreatedAt time.Time `json:"created_at"`
}
