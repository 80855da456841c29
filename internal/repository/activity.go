package repository

import (
	"context"
	"fmt"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for the append-only audit log.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.UserActivity) error
	// ListForUser returns a user's activity rows, newest first.
	ListForUser(ctx context.Context, userID string) ([]models.UserActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository instance.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.UserActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return translate(err, "activity not found", "failed to create user activity")
	}
	return nil
}

func (r *activityRepository) ListForUser(ctx context.Context, userID string) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, translate(err, "activity not found", fmt.Sprintf("failed to list activity for user %s", userID))
	}
	return activities, nil
}
