package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mockAdminService struct {
	listUsersFunc       func(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error)
	getUserFunc         func(ctx context.Context, userID string) (*models.PublicUser, error)
	changeRoleFunc      func(ctx context.Context, userID string, role models.Role, adminID string) error
	deactivateUserFunc  func(ctx context.Context, userID, adminID string) error
	reactivateUserFunc  func(ctx context.Context, userID, adminID string) error
	getUserActivityFunc func(ctx context.Context, userID string) ([]models.UserActivity, error)
}

func (m *mockAdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) GetUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ChangeRole(ctx context.Context, userID string, role models.Role, adminID string) error {
	if m.changeRoleFunc != nil {
		return m.changeRoleFunc(ctx, userID, role, adminID)
	}
	return errors.New("not implemented")
}

func (m *mockAdminService) DeactivateUser(ctx context.Context, userID, adminID string) error {
	if m.deactivateUserFunc != nil {
		return m.deactivateUserFunc(ctx, userID, adminID)
	}
	return errors.New("not implemented")
}

func (m *mockAdminService) ReactivateUser(ctx context.Context, userID, adminID string) error {
	if m.reactivateUserFunc != nil {
		return m.reactivateUserFunc(ctx, userID, adminID)
	}
	return errors.New("not implemented")
}

func (m *mockAdminService) GetUserActivity(ctx context.Context, userID string) ([]models.UserActivity, error) {
	if m.getUserActivityFunc != nil {
		return m.getUserActivityFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func newAdminRouter(svc *mockAdminService) *gin.Engine {
	handler := NewAdminHandler(svc, NewResponder(zap.NewNop().Sugar(), false))

	router := gin.New()
	admin := router.Group("/api/admin", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, "admin-1")
	})
	admin.GET("/users", handler.ListUsers)
	admin.GET("/users/:userId", handler.GetUser)
	admin.PUT("/users/:userId/change-role", handler.ChangeRole)
	admin.PUT("/users/:userId/deactivate", handler.DeactivateUser)
	admin.PUT("/users/:userId/reactivate", handler.ReactivateUser)
	admin.GET("/users/:userId/activity", handler.GetUserActivity)
	return router
}

func TestListUsersEndpointParsesFilters(t *testing.T) {
	var got repository.UserFilter
	svc := &mockAdminService{
		listUsersFunc: func(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error) {
			got = filter
			return []models.PublicUser{{ID: "user-1"}}, nil
		},
	}

	rec, envelope := doJSON(t, newAdminRouter(svc), http.MethodGet,
		"/api/admin/users?role=CUSTOMER&isActive=true&search=jane", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}
	if got.Role == nil || *got.Role != models.RoleCustomer {
		t.Errorf("filter role = %v, want CUSTOMER", got.Role)
	}
	if got.IsActive == nil || !*got.IsActive {
		t.Errorf("filter isActive = %v, want true", got.IsActive)
	}
	if got.Search != "jane" {
		t.Errorf("filter search = %q, want jane", got.Search)
	}
}

func TestListUsersEndpointRejectsBadActiveFlag(t *testing.T) {
	called := false
	svc := &mockAdminService{
		listUsersFunc: func(ctx context.Context, filter repository.UserFilter) ([]models.PublicUser, error) {
			called = true
			return nil, nil
		},
	}

	rec, _ := doJSON(t, newAdminRouter(svc), http.MethodGet, "/api/admin/users?isActive=maybe", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("workflow invoked despite invalid filter")
	}
}

func TestGetUserEndpointNotFound(t *testing.T) {
	svc := &mockAdminService{
		getUserFunc: func(ctx context.Context, userID string) (*models.PublicUser, error) {
			return nil, apperrors.NotFound("User not found")
		},
	}

	rec, envelope := doJSON(t, newAdminRouter(svc), http.MethodGet, "/api/admin/users/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Message != "User not found" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestChangeRoleEndpointPassesAdminFromContext(t *testing.T) {
	var gotUser, gotAdmin string
	var gotRole models.Role
	svc := &mockAdminService{
		changeRoleFunc: func(ctx context.Context, userID string, role models.Role, adminID string) error {
			gotUser, gotRole, gotAdmin = userID, role, adminID
			return nil
		},
	}

	rec, _ := doJSON(t, newAdminRouter(svc), http.MethodPut, "/api/admin/users/user-1/change-role", gin.H{
		"role": "ADMIN",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "user-1" || gotRole != models.RoleAdmin || gotAdmin != "admin-1" {
		t.Errorf("ChangeRole(%q, %q, %q), want (user-1, ADMIN, admin-1)", gotUser, gotRole, gotAdmin)
	}
}

func TestChangeRoleEndpointRejectsUnknownRole(t *testing.T) {
	called := false
	svc := &mockAdminService{
		changeRoleFunc: func(ctx context.Context, userID string, role models.Role, adminID string) error {
			called = true
			return nil
		},
	}

	rec, _ := doJSON(t, newAdminRouter(svc), http.MethodPut, "/api/admin/users/user-1/change-role", gin.H{
		"role": "SUPERUSER",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("workflow invoked despite binding failure")
	}
}

func TestDeactivateEndpointSelfTargetRejected(t *testing.T) {
	svc := &mockAdminService{
		deactivateUserFunc: func(ctx context.Context, userID, adminID string) error {
			return apperrors.Validation("Cannot deactivate your own account")
		},
	}

	rec, envelope := doJSON(t, newAdminRouter(svc), http.MethodPut, "/api/admin/users/admin-1/deactivate", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Message != "Cannot deactivate your own account" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestReactivateEndpoint(t *testing.T) {
	var gotUser string
	svc := &mockAdminService{
		reactivateUserFunc: func(ctx context.Context, userID, adminID string) error {
			gotUser = userID
			return nil
		},
	}

	rec, _ := doJSON(t, newAdminRouter(svc), http.MethodPut, "/api/admin/users/user-1/reactivate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "user-1" {
		t.Errorf("reactivated %q, want user-1", gotUser)
	}
}

func TestActivityEndpoint(t *testing.T) {
	svc := &mockAdminService{
		getUserActivityFunc: func(ctx context.Context, userID string) ([]models.UserActivity, error) {
			return []models.UserActivity{{ID: "a1", UserID: userID, Type: models.ActivityRoleChange}}, nil
		},
	}

	rec, envelope := doJSON(t, newAdminRouter(svc), http.MethodGet, "/api/admin/users/user-1/activity", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	rows, ok := envelope.Data.([]interface{})
	if !ok || len(rows) != 1 {
		t.Errorf("envelope data = %v, want one audit row", envelope.Data)
	}
}
