package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFilter narrows List results. Nil/empty fields are ignored.
type UserFilter struct {
	Role     *models.Role
	IsActive *bool
	Search   string
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	IncrementLoginAttempts(ctx context.Context, id string) error
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetEmailVerified(ctx context.Context, id string) error
	SetRole(ctx context.Context, id string, role models.Role) error
	SetActive(ctx context.Context, id string, active bool) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "user not found", "failed to create user")
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to update user %s", user.ID))
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to delete user %s", id))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user not found", fmt.Sprintf("failed to find user %s", id))
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user not found", "failed to find user by email")
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err, "user not found", "failed to find user by phone")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate(err, "user not found", "failed to list users")
	}
	return users, nil
}

// IncrementLoginAttempts bumps the counter in a single UPDATE so concurrent
// failed logins for the same user never lose an increment.
func (r *userRepository) IncrementLoginAttempts(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("login_attempts", gorm.Expr("login_attempts + 1")).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to increment login attempts for user %s", id))
	}
	return nil
}

func (r *userRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"login_attempts": 0,
			"last_login":     at,
		}).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to record login for user %s", id))
	}
	return nil
}

// SetPassword stores a new hash and clears the lockout counter.
func (r *userRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":       passwordHash,
			"login_attempts": 0,
		}).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to set password for user %s", id))
	}
	return nil
}

func (r *userRepository) SetEmailVerified(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_email_verified", true).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to mark email verified for user %s", id))
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to set role for user %s", id))
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
	if err != nil {
		return translate(err, "user not found", fmt.Sprintf("failed to set active flag for user %s", id))
	}
	return nil
}
