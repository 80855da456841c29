package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository defines the interface for single-use token operations.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	// FindValid looks up an unexpired token by value and type.
	FindValid(ctx context.Context, value string, typ models.TokenType, now time.Time) (*models.Token, error)
	// FindValidForUser additionally requires the owning user, used for OTP codes
	// which are only unique per user.
	FindValidForUser(ctx context.Context, userID, value string, typ models.TokenType, now time.Time) (*models.Token, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired sweeps tokens whose expiry has passed and reports how many
	// rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository instance.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.Token) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return translate(err, "token not found", "failed to create token")
	}
	return nil
}

func (r *tokenRepository) FindValid(ctx context.Context, value string, typ models.TokenType, now time.Time) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("token = ? AND type = ? AND expires_at > ?", value, typ, now).
		First(&token).Error
	if err != nil {
		return nil, translate(err, "token not found", fmt.Sprintf("failed to find %s token", typ))
	}
	return &token, nil
}

func (r *tokenRepository) FindValidForUser(ctx context.Context, userID, value string, typ models.TokenType, now time.Time) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ? AND type = ? AND expires_at > ?", userID, value, typ, now).
		First(&token).Error
	if err != nil {
		return nil, translate(err, "token not found", fmt.Sprintf("failed to find %s token for user %s", typ, userID))
	}
	return &token, nil
}

func (r *tokenRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Token{}, "id = ?", id).Error; err != nil {
		return translate(err, "token not found", fmt.Sprintf("failed to delete token %s", id))
	}
	return nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Token{})
	if result.Error != nil {
		return 0, translate(result.Error, "token not found", "failed to sweep expired tokens")
	}
	return result.RowsAffected, nil
}
