// Package referral converts referral credits into wallet balance at a
// fixed rate.
package referral

import (
	"context"
	"errors"
	"fmt"

	domain "nocage/internal/errors"
	"nocage/internal/repositories"
)

// Conversion rate: 1 credit = 20 paise (100 credits = ₹20).
const ReferralCreditPaise int64 = 20

// Per-conversion credit bounds.
const (
	MinConvertCredits int64 = 100
	MaxConvertCredits int64 = 10_000
)

// Result reports what a conversion did.
type Result struct {
	CreditsConverted  int64 `json:"credits_converted"`
	WalletAmountAdded int64 `json:"wallet_amount_added"`
}

type Service interface {
	Convert(ctx context.Context, userID uint, credits int64) (*Result, error)
}

type service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) Service {
	if users == nil {
		panic("user repo is required")
	}
	return &service{users: users}
}

func (s *service) Convert(ctx context.Context, userID uint, credits int64) (*Result, error) {
	if credits < MinConvertCredits {
		return nil, domain.ErrBelowMinimum
	}
	if credits > MaxConvertCredits {
		return nil, domain.ErrInvalidAmount
	}

	paise := credits * ReferralCreditPaise
	if paise < 1 {
		return nil, domain.ErrConversionTooSmall
	}

	description := fmt.Sprintf("Converted %d referral credits", credits)
	err := s.users.ConvertReferralCredits(ctx, userID, credits, paise, description)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInsufficientCredits):
			return nil, domain.ErrInsufficientCredits
		}
		return nil, fmt.Errorf("failed to convert referral credits: %w", err)
	}

	return &Result{
		CreditsConverted:  credits,
		WalletAmountAdded: paise,
	}, nil
}
