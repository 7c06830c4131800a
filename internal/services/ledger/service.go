package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	domain "nocage/internal/errors"
	"nocage/internal/models"
	"nocage/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo     repositories.LedgerRepository
	cache    Cache
	notifier Notifier
	config   Config
	metrics  MetricsCollector
}

// NewService creates a new ledger service. repo is required; cache,
// notifier and metrics are optional.
func NewService(
	repo repositories.LedgerRepository,
	cache Cache,
	notifier Notifier,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if config.NotifyCreditThreshold == 0 {
		config.NotifyCreditThreshold = DefaultNotifyCreditThreshold
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		config:   config,
		metrics:  metrics,
	}
}

// GetWallet creates the wallet lazily on first access. This is the one
// read path with a write side effect; GetBalance stays pure.
func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := s.repo.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// GetBalance is a pure read: a missing wallet reads as zero and is not
// created.
func (s *service) GetBalance(ctx context.Context, userID uint) (int64, error) {
	if s.cache != nil {
		if balance, hit, err := s.cache.GetBalance(ctx, userID); err == nil && hit {
			return balance, nil
		}
	}

	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, userID, wallet.Balance); err != nil {
			log.Printf("failed to cache balance for user %d: %v", userID, err)
		}
	}
	return wallet.Balance, nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount int64, description string) error {
	if amount <= 0 {
		s.metrics.RecordError("credit", "invalid_amount")
		return domain.ErrInvalidAmount
	}

	record := &models.WalletTransaction{
		ToUserID:    &userID,
		Amount:      amount,
		Type:        models.TransactionTypeAddMoney,
		Status:      models.TransactionStatusCompleted,
		Description: description,
	}
	if err := s.repo.Credit(ctx, userID, amount, record); err != nil {
		s.metrics.RecordError("credit", "storage")
		return fmt.Errorf("credit failed: %w", err)
	}

	s.invalidateBalance(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeAddMoney, amount)

	if s.notifier != nil && amount >= s.config.NotifyCreditThreshold {
		s.notifier.WalletCredited(ctx, userID, amount)
	}
	return nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount int64, description string) (bool, error) {
	if amount <= 0 {
		s.metrics.RecordError("debit", "invalid_amount")
		return false, domain.ErrInvalidAmount
	}

	record := &models.WalletTransaction{
		FromUserID:  &userID,
		Amount:      amount,
		Type:        models.TransactionTypePayout,
		Status:      models.TransactionStatusCompleted,
		Description: description,
	}
	ok, err := s.repo.Debit(ctx, userID, amount, record)
	if err != nil {
		s.metrics.RecordError("debit", "storage")
		return false, fmt.Errorf("debit failed: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.invalidateBalance(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypePayout, amount)
	return true, nil
}

func (s *service) Transfer(ctx context.Context, req TransferRequest) error {
	if req.Amount <= 0 {
		s.metrics.RecordError("transfer", "invalid_amount")
		return domain.ErrInvalidAmount
	}
	if req.FromUserID == req.ToUserID {
		s.metrics.RecordError("transfer", "self_transfer")
		return domain.ErrSelfTransfer
	}
	txType := req.Type
	if txType == "" {
		txType = models.TransactionTypeCapsulePurchase
	}

	record := &models.WalletTransaction{
		FromUserID:  &req.FromUserID,
		ToUserID:    &req.ToUserID,
		Amount:      req.Amount,
		Type:        txType,
		Status:      models.TransactionStatusCompleted,
		Description: req.Description,
		CapsuleID:   req.CapsuleID,
		Reference:   uuid.NewString(),
	}
	err := s.repo.Transfer(ctx, req.FromUserID, req.ToUserID, req.Amount, record)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return domain.ErrInsufficientFunds
		}
		s.metrics.RecordError("transfer", "storage")
		return fmt.Errorf("transfer failed: %w", err)
	}

	s.invalidateBalance(ctx, req.FromUserID)
	s.invalidateBalance(ctx, req.ToUserID)
	s.metrics.RecordTransaction(txType, req.Amount)
	return nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, opts ListOptions) ([]models.WalletTransaction, *uint, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// Fetch one extra row; its presence means another page exists.
	records, err := s.repo.ListTransactions(ctx, userID, repositories.TransactionFilter{
		Limit:  limit + 1,
		Cursor: opts.Cursor,
		Type:   opts.Type,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var nextCursor *uint
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1].ID
		nextCursor = &last
	}
	return records, nextCursor, nil
}

func (s *service) invalidateBalance(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("failed to invalidate balance cache for user %d: %v", userID, err)
	}
}
