package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`
	Role     string `gorm:"default:'user'"`
	Status   string `gorm:"default:'active'"`

	// ReferralCredits is a secondary reward balance, convertible to wallet
	// balance at ReferralCreditPaise per credit. Never goes negative; the
	// decrement is a conditional update in the user repository.
	ReferralCredits int64  `gorm:"not null;default:0"`
	ReferralCode    string `gorm:"uniqueIndex;default:null"`

	TokenVersion int `gorm:"default:1"`
}
