package repositories

import (
	"context"
	"errors"
	"fmt"

	"nocage/internal/models"

	"gorm.io/gorm"
)

// TopupFilter selects a page of top-ups, newest first, id-cursored.
type TopupFilter struct {
	Limit  int
	Cursor *uint
	Status string
}

type TopupRepository interface {
	Create(ctx context.Context, topup *models.WalletTopup) error
	GetByID(ctx context.Context, id uint) (*models.WalletTopup, error)
	ListByUser(ctx context.Context, userID uint, filter TopupFilter) ([]models.WalletTopup, error)
	ListAll(ctx context.Context, filter TopupFilter) ([]models.WalletTopup, error)

	// Confirm moves a non-terminal top-up to SUCCESS and credits the
	// wallet, as one database transaction. A second Confirm on the same
	// row returns ErrInvalidTransition; the credit happens exactly once.
	Confirm(ctx context.Context, id uint, utrNumber, notes string) (*models.WalletTopup, error)

	// Reject moves a non-terminal top-up to FAILED. No wallet effect.
	Reject(ctx context.Context, id uint, reason string) (*models.WalletTopup, error)
}

type topupRepository struct {
	db *gorm.DB
}

func NewTopupRepository(db *gorm.DB) TopupRepository {
	return &topupRepository{db: db}
}

func (r *topupRepository) Create(ctx context.Context, topup *models.WalletTopup) error {
	if err := r.db.WithContext(ctx).Create(topup).Error; err != nil {
		return fmt.Errorf("failed to create topup: %w", err)
	}
	return nil
}

func (r *topupRepository) GetByID(ctx context.Context, id uint) (*models.WalletTopup, error) {
	var topup models.WalletTopup
	if err := r.db.WithContext(ctx).First(&topup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopupNotFound
		}
		return nil, fmt.Errorf("failed to get topup: %w", err)
	}
	return &topup, nil
}

func (r *topupRepository) ListByUser(ctx context.Context, userID uint, filter TopupFilter) ([]models.WalletTopup, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), filter)
}

func (r *topupRepository) ListAll(ctx context.Context, filter TopupFilter) ([]models.WalletTopup, error) {
	return r.list(ctx, r.db.WithContext(ctx), filter)
}

func (r *topupRepository) list(_ context.Context, q *gorm.DB, filter TopupFilter) ([]models.WalletTopup, error) {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Cursor != nil {
		q = q.Where("id < ?", *filter.Cursor)
	}

	var topups []models.WalletTopup
	if err := q.Order("id DESC").Limit(filter.Limit).Find(&topups).Error; err != nil {
		return nil, fmt.Errorf("failed to list topups: %w", err)
	}
	return topups, nil
}

func (r *topupRepository) Confirm(ctx context.Context, id uint, utrNumber, notes string) (*models.WalletTopup, error) {
	var confirmed models.WalletTopup
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded transition: row count zero means the top-up is either
		// missing or already terminal, never a double credit.
		res := tx.Model(&models.WalletTopup{}).
			Where("id = ? AND status IN ?", id,
				[]string{models.TopupStatusPending, models.TopupStatusAwaitingPayment}).
			Updates(map[string]interface{}{
				"status":     models.TopupStatusSuccess,
				"utr_number": utrNumber,
				"notes":      notes,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to confirm topup: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.WalletTopup
			if err := tx.First(&exists, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTopupNotFound
				}
				return fmt.Errorf("failed to check topup: %w", err)
			}
			return ErrInvalidTransition
		}

		if err := tx.First(&confirmed, id).Error; err != nil {
			return fmt.Errorf("failed to reload topup: %w", err)
		}

		if err := creditWalletTx(tx, confirmed.UserID, confirmed.Amount); err != nil {
			return err
		}
		return insertTransactionTx(tx, &models.WalletTransaction{
			ToUserID:    &confirmed.UserID,
			Amount:      confirmed.Amount,
			Type:        models.TransactionTypeAddMoney,
			Description: fmt.Sprintf("Wallet top-up %s", confirmed.ReferenceID),
			Reference:   confirmed.ReferenceID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &confirmed, nil
}

func (r *topupRepository) Reject(ctx context.Context, id uint, reason string) (*models.WalletTopup, error) {
	var rejected models.WalletTopup
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WalletTopup{}).
			Where("id = ? AND status IN ?", id,
				[]string{models.TopupStatusPending, models.TopupStatusAwaitingPayment}).
			Updates(map[string]interface{}{
				"status": models.TopupStatusFailed,
				"notes":  reason,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reject topup: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.WalletTopup
			if err := tx.First(&exists, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTopupNotFound
				}
				return fmt.Errorf("failed to check topup: %w", err)
			}
			return ErrInvalidTransition
		}
		return tx.First(&rejected, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &rejected, nil
}
