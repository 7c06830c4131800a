package models

import (
	"time"
)

// Top-up methods
const (
	TopupMethodUpiID = "UPI_ID"
	TopupMethodQR    = "QR_PAYMENT"
)

// Top-up statuses. AWAITING_PAYMENT is the initial state; SUCCESS and
// FAILED are terminal and never transition out.
const (
	TopupStatusPending         = "PENDING"
	TopupStatusAwaitingPayment = "AWAITING_PAYMENT"
	TopupStatusSuccess         = "SUCCESS"
	TopupStatusFailed          = "FAILED"
)

// WalletTopup tracks an out-of-band payment into a wallet. The wallet is
// credited exactly once, atomically with the transition to SUCCESS.
type WalletTopup struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Amount int64  `gorm:"not null" json:"amount"`
	Method string `gorm:"not null" json:"method"`
	UpiID  string `json:"upi_id,omitempty"`

	// ReferenceID is embedded in the UPI payment note so incoming bank
	// SMS/webhook text can be matched back to this row by substring.
	ReferenceID string `gorm:"uniqueIndex;not null" json:"reference_id"`

	Status     string `gorm:"not null;default:'AWAITING_PAYMENT';index" json:"status"`
	QRCodeData string `json:"qr_code_data,omitempty"`
	UtrNumber  string `json:"utr_number,omitempty"`
	Notes      string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the top-up has reached a final state.
func (t *WalletTopup) Terminal() bool {
	return t.Status == TopupStatusSuccess || t.Status == TopupStatusFailed
}
