package repositories

import (
	"context"
	"errors"
	"fmt"

	"nocage/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	IncrementTokenVersion(ctx context.Context, id uint) error

	// ConvertReferralCredits decrements the user's referral credits and
	// credits the wallet, in one database transaction. Returns
	// ErrInsufficientCredits if the user doesn't hold enough credits.
	ConvertReferralCredits(ctx context.Context, userID uint, credits, paise int64, description string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ConvertReferralCredits(ctx context.Context, userID uint, credits, paise int64, description string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional decrement; the WHERE clause keeps credits from
		// going negative under concurrent conversions.
		res := tx.Model(&models.User{}).
			Where("id = ? AND referral_credits >= ?", userID, credits).
			Update("referral_credits", gorm.Expr("referral_credits - ?", credits))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement referral credits: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists models.User
			if err := tx.First(&exists, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return fmt.Errorf("failed to check user: %w", err)
			}
			return ErrInsufficientCredits
		}

		if err := creditWalletTx(tx, userID, paise); err != nil {
			return err
		}
		return insertTransactionTx(tx, &models.WalletTransaction{
			ToUserID:    &userID,
			Amount:      paise,
			Type:        models.TransactionTypeAddMoney,
			Description: description,
		})
	})
}
