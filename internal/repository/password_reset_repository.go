package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yorkpress/internal/model"
)

// PasswordResetRepository persists hashed reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *model.PasswordReset) error
	// ListActive returns every record with expires > now, system-wide.
	// Token verification scans this set; expired rows are filtered here
	// and cleaned up only when a consumption purges a user's records.
	ListActive(ctx context.Context, now time.Time) ([]model.PasswordReset, error)
	// ConsumeForUser rotates the user's password hash and deletes all of
	// the user's reset records as one transaction. Either both happen or
	// neither: no state where the password changed but sibling tokens
	// remain valid, and none where tokens are gone but the password is
	// unchanged.
	ConsumeForUser(ctx context.Context, userID uint, newPasswordHash string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository builds a GORM-backed repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *passwordResetRepository) ListActive(ctx context.Context, now time.Time) ([]model.PasswordReset, error) {
	var resets []model.PasswordReset
	if err := r.db.WithContext(ctx).
		Where("expires > ?", now).Find(&resets).Error; err != nil {
		return nil, err
	}
	return resets, nil
}

func (r *passwordResetRepository) ConsumeForUser(ctx context.Context, userID uint, newPasswordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("password_hash", newPasswordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ?", userID).
			Delete(&model.PasswordReset{}).Error
	})
}

func (r *passwordResetRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&model.PasswordReset{}).Error
}
