package models

import (
	"time"
)

// Notification kinds emitted by ledger side effects.
const (
	NotificationWalletCredited = "WALLET_CREDITED"
	NotificationTopupConfirmed = "TOPUP_CONFIRMED"
	NotificationTopupRejected  = "TOPUP_REJECTED"
	NotificationPayoutUpdate   = "PAYOUT_UPDATE"
)

// Notification is a best-effort user message. Writing one must never fail
// the financial operation that triggered it.
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
