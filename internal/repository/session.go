package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository defines the interface for login session operations.
// Sessions are soft-closed: logout flips is_active, rows are never deleted.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// ListActive returns a user's active sessions, most recently used first.
	ListActive(ctx context.Context, userID string) ([]models.Session, error)
	// FindForUser fetches a session only when it belongs to the given user.
	FindForUser(ctx context.Context, sessionID, userID string) (*models.Session, error)
	Deactivate(ctx context.Context, sessionID string) error
	DeactivateAll(ctx context.Context, userID string) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.LastUsed.IsZero() {
		session.LastUsed = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return translate(err, "session not found", "failed to create session")
	}
	return nil
}

func (r *sessionRepository) ListActive(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_used DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, translate(err, "session not found", fmt.Sprintf("failed to list sessions for user %s", userID))
	}
	return sessions, nil
}

func (r *sessionRepository) FindForUser(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		return nil, translate(err, "session not found", fmt.Sprintf("failed to find session %s", sessionID))
	}
	return &session, nil
}

func (r *sessionRepository) Deactivate(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		UpdateColumn("is_active", false).Error
	if err != nil {
		return translate(err, "session not found", fmt.Sprintf("failed to deactivate session %s", sessionID))
	}
	return nil
}

func (r *sessionRepository) DeactivateAll(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		UpdateColumn("is_active", false).Error
	if err != nil {
		return translate(err, "session not found", fmt.Sprintf("failed to deactivate sessions for user %s", userID))
	}
	return nil
}
