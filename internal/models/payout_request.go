package models

import (
	"time"
)

// Payout statuses. The wallet is debited when the request moves
// PENDING -> PROCESSING; a later FAILED transition refunds it.
const (
	PayoutStatusPending    = "PENDING"
	PayoutStatusProcessing = "PROCESSING"
	PayoutStatusCompleted  = "COMPLETED"
	PayoutStatusFailed     = "FAILED"
)

// PayoutRequest is a withdrawal to an external bank account or UPI id.
type PayoutRequest struct {
	ID     uint  `gorm:"primarykey" json:"id"`
	UserID uint  `gorm:"index;not null" json:"user_id"`
	Amount int64 `gorm:"not null" json:"amount"`

	// Destination: either BankAccount+IfscCode or UpiID.
	BankAccount   string `json:"bank_account,omitempty"`
	IfscCode      string `json:"ifsc_code,omitempty"`
	UpiID         string `json:"upi_id,omitempty"`
	AccountHolder string `gorm:"not null" json:"account_holder"`

	Status      string     `gorm:"not null;default:'PENDING';index" json:"status"`
	Reason      string     `json:"reason,omitempty"`
	ExternalRef string     `json:"external_ref,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
