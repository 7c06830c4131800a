// Package topup runs the wallet top-up state machine:
// AWAITING_PAYMENT -> SUCCESS (credits the wallet, exactly once) or
// FAILED (no wallet effect). Terminal states never transition out.
package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "nocage/internal/errors"
	"nocage/internal/models"
	"nocage/internal/repositories"
)

// Top-up amount bounds in paise.
const (
	MinTopupAmount int64 = 100        // ₹1
	MaxTopupAmount int64 = 10_000_000 // ₹100 000
)

// Config identifies the payee side of generated UPI payloads.
type Config struct {
	PayeeVPA  string
	PayeeName string
}

// Notifier delivers best-effort top-up outcome notifications.
type Notifier interface {
	TopupConfirmed(ctx context.Context, userID uint, amount int64, referenceID string)
	TopupRejected(ctx context.Context, userID uint, referenceID, reason string)
}

type Service interface {
	Create(ctx context.Context, userID uint, amount int64, method, upiID string) (*models.WalletTopup, error)
	Confirm(ctx context.Context, topupID uint, utrNumber, notes string) (*models.WalletTopup, error)
	Reject(ctx context.Context, topupID uint, reason string) (*models.WalletTopup, error)
	ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]models.WalletTopup, *uint, error)
	ListAll(ctx context.Context, opts ListOptions) ([]models.WalletTopup, *uint, error)
}

// ListOptions selects a page of top-ups.
type ListOptions struct {
	Limit  int
	Cursor *uint
	Status string
}

type service struct {
	repo     repositories.TopupRepository
	notifier Notifier
	config   Config
	now      func() time.Time
}

func NewService(repo repositories.TopupRepository, notifier Notifier, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if config.PayeeVPA == "" {
		config.PayeeVPA = "nocage@upi"
	}
	if config.PayeeName == "" {
		config.PayeeName = "NoCage"
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		config:   config,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID uint, amount int64, method, upiID string) (*models.WalletTopup, error) {
	if amount < MinTopupAmount || amount > MaxTopupAmount {
		return nil, domain.ErrInvalidAmount
	}
	if method != models.TopupMethodUpiID && method != models.TopupMethodQR {
		return nil, domain.ErrInvalidState
	}
	if upiID != "" && !ValidUpiID(upiID) {
		return nil, domain.ErrInvalidUpiFormat
	}

	topup := &models.WalletTopup{
		UserID:      userID,
		Amount:      amount,
		Method:      method,
		UpiID:       upiID,
		ReferenceID: newReferenceID(s.now()),
		Status:      models.TopupStatusAwaitingPayment,
	}
	if method == models.TopupMethodQR {
		topup.QRCodeData = buildUpiURI(s.config.PayeeVPA, s.config.PayeeName, amount, topup.ReferenceID)
	}

	// No wallet mutation here; the credit happens on Confirm.
	if err := s.repo.Create(ctx, topup); err != nil {
		return nil, fmt.Errorf("failed to create topup: %w", err)
	}
	return topup, nil
}

func (s *service) Confirm(ctx context.Context, topupID uint, utrNumber, notes string) (*models.WalletTopup, error) {
	topup, err := s.repo.Confirm(ctx, topupID, utrNumber, notes)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTopupNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInvalidTransition):
			return nil, domain.ErrInvalidState
		}
		return nil, fmt.Errorf("failed to confirm topup: %w", err)
	}

	if s.notifier != nil {
		s.notifier.TopupConfirmed(ctx, topup.UserID, topup.Amount, topup.ReferenceID)
	}
	return topup, nil
}

func (s *service) Reject(ctx context.Context, topupID uint, reason string) (*models.WalletTopup, error) {
	topup, err := s.repo.Reject(ctx, topupID, reason)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTopupNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, repositories.ErrInvalidTransition):
			return nil, domain.ErrInvalidState
		}
		return nil, fmt.Errorf("failed to reject topup: %w", err)
	}

	if s.notifier != nil {
		s.notifier.TopupRejected(ctx, topup.UserID, topup.ReferenceID, reason)
	}
	return topup, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]models.WalletTopup, *uint, error) {
	limit := clampLimit(opts.Limit)
	topups, err := s.repo.ListByUser(ctx, userID, repositories.TopupFilter{
		Limit:  limit + 1,
		Cursor: opts.Cursor,
		Status: opts.Status,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list topups: %w", err)
	}
	return pageTopups(topups, limit)
}

func (s *service) ListAll(ctx context.Context, opts ListOptions) ([]models.WalletTopup, *uint, error) {
	limit := clampLimit(opts.Limit)
	topups, err := s.repo.ListAll(ctx, repositories.TopupFilter{
		Limit:  limit + 1,
		Cursor: opts.Cursor,
		Status: opts.Status,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list topups: %w", err)
	}
	return pageTopups(topups, limit)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func pageTopups(topups []models.WalletTopup, limit int) ([]models.WalletTopup, *uint, error) {
	var nextCursor *uint
	if len(topups) > limit {
		topups = topups[:limit]
		last := topups[len(topups)-1].ID
		nextCursor = &last
	}
	return topups, nextCursor, nil
}
