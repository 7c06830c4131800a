package repositories

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTopupNotFound       = errors.New("topup not found")
	ErrPayoutNotFound      = errors.New("payout request not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientCredits = errors.New("insufficient referral credits")
)
