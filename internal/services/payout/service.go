// Package payout runs the withdrawal state machine:
// PENDING -> PROCESSING (wallet debited) -> COMPLETED or FAILED (wallet
// refunded). The debit is fused with the PENDING -> PROCESSING transition
// in one database transaction, so a request never reaches PROCESSING with
// its debit missing.
package payout

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	domain "nocage/internal/errors"
	"nocage/internal/models"
	"nocage/internal/repositories"
	"nocage/internal/services/topup"
)

// MinPayoutAmount is the smallest withdrawal, in paise (₹10).
const MinPayoutAmount int64 = 1_000

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Request carries the destination details of a withdrawal. Either
// BankAccount+IfscCode or UpiID must be set.
type Request struct {
	UserID        uint
	Amount        int64
	BankAccount   string
	IfscCode      string
	UpiID         string
	AccountHolder string
}

// Notifier delivers best-effort payout status notifications.
type Notifier interface {
	PayoutUpdate(ctx context.Context, userID uint, payoutID uint, status, reason string)
}

// ListOptions selects a page of payout requests.
type ListOptions struct {
	Limit  int
	Cursor *uint
	Status string
}

type Service interface {
	Request(ctx context.Context, req Request) (*models.PayoutRequest, error)
	Process(ctx context.Context, payoutID uint) (*models.PayoutRequest, error)
	MarkCompleted(ctx context.Context, payoutID uint, externalRef string) (*models.PayoutRequest, error)
	MarkFailed(ctx context.Context, payoutID uint, reason string) (*models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]models.PayoutRequest, *uint, error)
}

type service struct {
	repo     repositories.PayoutRepository
	ledger   repositories.LedgerRepository
	notifier Notifier
}

func NewService(repo repositories.PayoutRepository, ledger repositories.LedgerRepository, notifier Notifier) Service {
	if repo == nil {
		panic("repo is required")
	}
	if ledger == nil {
		panic("ledger repo is required")
	}
	return &service{repo: repo, ledger: ledger, notifier: notifier}
}

func (s *service) Request(ctx context.Context, req Request) (*models.PayoutRequest, error) {
	if req.Amount < MinPayoutAmount {
		return nil, domain.ErrBelowMinimum
	}
	if req.AccountHolder == "" {
		return nil, domain.ErrInvalidState
	}
	if err := validateDestination(req); err != nil {
		return nil, err
	}

	// Advisory check only: the balance can still change before an admin
	// processes the request. The binding check is the conditional debit
	// inside Process.
	wallet, err := s.ledger.GetWalletByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if wallet.Balance < req.Amount {
		return nil, domain.ErrInsufficientFunds
	}

	payout := &models.PayoutRequest{
		UserID:        req.UserID,
		Amount:        req.Amount,
		BankAccount:   req.BankAccount,
		IfscCode:      req.IfscCode,
		UpiID:         req.UpiID,
		AccountHolder: req.AccountHolder,
		Status:        models.PayoutStatusPending,
	}
	if err := s.repo.Create(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to create payout request: %w", err)
	}
	return payout, nil
}

func (s *service) Process(ctx context.Context, payoutID uint) (*models.PayoutRequest, error) {
	payout, err := s.repo.Process(ctx, payoutID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPayoutNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInvalidTransition):
			return nil, domain.ErrInvalidState
		case errors.Is(err, repositories.ErrInsufficientBalance):
			return nil, domain.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to process payout: %w", err)
	}

	if s.notifier != nil {
		s.notifier.PayoutUpdate(ctx, payout.UserID, payout.ID, payout.Status, "")
	}
	return payout, nil
}

func (s *service) MarkCompleted(ctx context.Context, payoutID uint, externalRef string) (*models.PayoutRequest, error) {
	payout, err := s.repo.MarkCompleted(ctx, payoutID, externalRef)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPayoutNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInvalidTransition):
			return nil, domain.ErrInvalidState
		}
		return nil, fmt.Errorf("failed to complete payout: %w", err)
	}

	if s.notifier != nil {
		s.notifier.PayoutUpdate(ctx, payout.UserID, payout.ID, payout.Status, "")
	}
	return payout, nil
}

func (s *service) MarkFailed(ctx context.Context, payoutID uint, reason string) (*models.PayoutRequest, error) {
	payout, err := s.repo.MarkFailed(ctx, payoutID, reason)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPayoutNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInvalidTransition):
			return nil, domain.ErrInvalidState
		}
		return nil, fmt.Errorf("failed to fail payout: %w", err)
	}

	if s.notifier != nil {
		s.notifier.PayoutUpdate(ctx, payout.UserID, payout.ID, payout.Status, reason)
	}
	return payout, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]models.PayoutRequest, *uint, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	payouts, err := s.repo.ListByUser(ctx, userID, repositories.PayoutFilter{
		Limit:  limit + 1,
		Cursor: opts.Cursor,
		Status: opts.Status,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payout requests: %w", err)
	}

	var nextCursor *uint
	if len(payouts) > limit {
		payouts = payouts[:limit]
		last := payouts[len(payouts)-1].ID
		nextCursor = &last
	}
	return payouts, nextCursor, nil
}

func validateDestination(req Request) error {
	hasBank := req.BankAccount != "" || req.IfscCode != ""
	hasUpi := req.UpiID != ""
	switch {
	case hasBank && hasUpi:
		return domain.ErrInvalidState
	case hasBank:
		if req.BankAccount == "" || !ifscPattern.MatchString(req.IfscCode) {
			return domain.ErrInvalidState
		}
	case hasUpi:
		if !topup.ValidUpiID(req.UpiID) {
			return domain.ErrInvalidUpiFormat
		}
	default:
		return domain.ErrInvalidState
	}
	return nil
}
