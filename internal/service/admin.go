package service

import (
	"context"
	"fmt"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"go.uber.org/zap"
)

// AdminService exposes user administration: listing, role changes,
// activation toggles and the audit trail those actions produce.
type AdminService interface {
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error)
	GetUser(ctx context.Context, userID string) (*models.PublicUser, error)
	ChangeRole(ctx context.Context, userID string, role models.Role, adminID string) error
	DeactivateUser(ctx context.Context, userID, adminID string) error
	ReactivateUser(ctx context.Context, userID, adminID string) error
	GetUserActivity(ctx context.Context, userID string) ([]models.UserActivity, error)
}

type adminService struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	log        *zap.SugaredLogger
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(users repository.UserRepository, activities repository.ActivityRepository, log *zap.SugaredLogger) AdminService {
	return &adminService{users: users, activities: activities, log: log}
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	projections := make([]models.PublicUser, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Public())
	}
	return projections, nil
}

func (s *adminService) GetUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *adminService) ChangeRole(ctx context.Context, userID string, role models.Role, adminID string) error {
	if !role.Valid() {
		return apperrors.Validation("Role must be ADMIN or CUSTOMER")
	}
	if userID == adminID {
		return apperrors.Validation("Cannot change your own role")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.ActivityRoleChange,
		fmt.Sprintf("Role changed to %s by admin %s", role, adminID))

	s.log.Infow("user role changed", "userId", userID, "role", role, "adminId", adminID)
	return nil
}

func (s *adminService) DeactivateUser(ctx context.Context, userID, adminID string) error {
	if userID == adminID {
		return apperrors.Validation("Cannot deactivate your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.ActivityAccountDeactivated,
		fmt.Sprintf("Account deactivated by admin %s", adminID))

	s.log.Infow("user deactivated", "userId", userID, "adminId", adminID)
	return nil
}

func (s *adminService) ReactivateUser(ctx context.Context, userID, adminID string) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.SetActive(ctx, userID, true); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.ActivityAccountReactivated,
		fmt.Sprintf("Account reactivated by admin %s", adminID))

	s.log.Infow("user reactivated", "userId", userID, "adminId", adminID)
	return nil
}

func (s *adminService) GetUserActivity(ctx context.Context, userID string) ([]models.UserActivity, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.activities.ListForUser(ctx, userID)
}

// recordActivity appends an audit row; the admin action itself has already
// succeeded, so a failed audit insert is logged rather than unwound.
func (s *adminService) recordActivity(ctx context.Context, userID string, typ models.ActivityType, details string) {
	err := s.activities.Create(ctx, &models.UserActivity{
		UserID:  userID,
		Type:    typ,
		Details: details,
	})
	if err != nil {
		s.log.Errorw("failed to record user activity", "userId", userID, "type", typ, "error", err)
	}
}
