package repository

import (
	"context"

	"gorm.io/gorm"

	"yorkpress/internal/model"
)

// ActivityRepository persists audit trail entries.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.UserActivity) error
	ListByUserID(ctx context.Context, userID uint, limit int) ([]model.UserActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository builds a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
