package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nocage/internal/models"

	"gorm.io/gorm"
)

// PayoutFilter selects a page of payout requests, newest first.
type PayoutFilter struct {
	Limit  int
	Cursor *uint
	Status string
}

type PayoutRepository interface {
	Create(ctx context.Context, payout *models.PayoutRequest) error
	GetByID(ctx context.Context, id uint) (*models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID uint, filter PayoutFilter) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context, filter PayoutFilter) ([]models.PayoutRequest, error)

	// Process moves PENDING -> PROCESSING and debits the wallet in one
	// database transaction. If the balance no longer covers the amount
	// the whole transaction rolls back and the request stays PENDING.
	Process(ctx context.Context, id uint) (*models.PayoutRequest, error)

	// MarkCompleted moves PROCESSING -> COMPLETED. Terminal.
	MarkCompleted(ctx context.Context, id uint, externalRef string) (*models.PayoutRequest, error)

	// MarkFailed moves PROCESSING -> FAILED and refunds the debited
	// amount with a REFUND record, atomically with the transition.
	MarkFailed(ctx context.Context, id uint, reason string) (*models.PayoutRequest, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

// payoutReference correlates a payout's debit with its eventual refund.
func payoutReference(id uint) string {
	return fmt.Sprintf("payout-%d", id)
}

func (r *payoutRepository) Create(ctx context.Context, payout *models.PayoutRequest) error {
	if err := r.db.WithContext(ctx).Create(payout).Error; err != nil {
		return fmt.Errorf("failed to create payout request: %w", err)
	}
	return nil
}

func (r *payoutRepository) GetByID(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := r.db.WithContext(ctx).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout request: %w", err)
	}
	return &payout, nil
}

func (r *payoutRepository) ListByUser(ctx context.Context, userID uint, filter PayoutFilter) ([]models.PayoutRequest, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), filter)
}

func (r *payoutRepository) ListAll(ctx context.Context, filter PayoutFilter) ([]models.PayoutRequest, error) {
	return r.list(r.db.WithContext(ctx), filter)
}

func (r *payoutRepository) list(q *gorm.DB, filter PayoutFilter) ([]models.PayoutRequest, error) {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Cursor != nil {
		q = q.Where("id < ?", *filter.Cursor)
	}

	var payouts []models.PayoutRequest
	if err := q.Order("id DESC").Limit(filter.Limit).Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list payout requests: %w", err)
	}
	return payouts, nil
}

func (r *payoutRepository) Process(ctx context.Context, id uint) (*models.PayoutRequest, error) {
	var processed models.PayoutRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.PayoutRequest{}).
			Where("id = ? AND status = ?", id, models.PayoutStatusPending).
			Updates(map[string]interface{}{
				"status":       models.PayoutStatusProcessing,
				"processed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to process payout: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.PayoutRequest
			if err := tx.First(&exists, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPayoutNotFound
				}
				return fmt.Errorf("failed to check payout: %w", err)
			}
			return ErrInvalidTransition
		}

		if err := tx.First(&processed, id).Error; err != nil {
			return fmt.Errorf("failed to reload payout: %w", err)
		}

		debited, err := debitWalletTx(tx, processed.UserID, processed.Amount)
		if err != nil {
			return err
		}
		if !debited {
			// Balance moved since the request was made. Roll everything
			// back so the request stays PENDING.
			return ErrInsufficientBalance
		}
		return insertTransactionTx(tx, &models.WalletTransaction{
			FromUserID:  &processed.UserID,
			Amount:      processed.Amount,
			Type:        models.TransactionTypePayout,
			Description: fmt.Sprintf("Payout to %s", processed.AccountHolder),
			Reference:   payoutReference(processed.ID),
		})
	})
	if err != nil {
		return nil, err
	}
	return &processed, nil
}

func (r *payoutRepository) MarkCompleted(ctx context.Context, id uint, externalRef string) (*models.PayoutRequest, error) {
	var completed models.PayoutRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PayoutRequest{}).
			Where("id = ? AND status = ?", id, models.PayoutStatusProcessing).
			Updates(map[string]interface{}{
				"status":       models.PayoutStatusCompleted,
				"external_ref": externalRef,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete payout: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.PayoutRequest
			if err := tx.First(&exists, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPayoutNotFound
				}
				return fmt.Errorf("failed to check payout: %w", err)
			}
			return ErrInvalidTransition
		}
		return tx.First(&completed, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

func (r *payoutRepository) MarkFailed(ctx context.Context, id uint, reason string) (*models.PayoutRequest, error) {
	var failed models.PayoutRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PayoutRequest{}).
			Where("id = ? AND status = ?", id, models.PayoutStatusProcessing).
			Updates(map[string]interface{}{
				"status": models.PayoutStatusFailed,
				"reason": reason,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to fail payout: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.PayoutRequest
			if err := tx.First(&exists, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPayoutNotFound
				}
				return fmt.Errorf("failed to check payout: %w", err)
			}
			return ErrInvalidTransition
		}

		if err := tx.First(&failed, id).Error; err != nil {
			return fmt.Errorf("failed to reload payout: %w", err)
		}

		// Return the debited funds. Same reference as the debit leg so
		// the pair is auditable.
		if err := creditWalletTx(tx, failed.UserID, failed.Amount); err != nil {
			return err
		}
		return insertTransactionTx(tx, &models.WalletTransaction{
			ToUserID:    &failed.UserID,
			Amount:      failed.Amount,
			Type:        models.TransactionTypeRefund,
			Description: fmt.Sprintf("Refund of failed payout: %s", reason),
			Reference:   payoutReference(failed.ID),
		})
	})
	if err != nil {
		return nil, err
	}
	return &failed, nil
}
