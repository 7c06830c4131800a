package models

import (
	"time"
)

// Wallet is the per-user stored balance. Balance is int64 paise and must
// never go negative; debits are expressed as conditional updates so the
// database enforces the invariant under concurrency.
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
