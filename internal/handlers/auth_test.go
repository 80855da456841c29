package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuthService struct {
	registerFunc          func(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error)
	verifyEmailFunc       func(ctx context.Context, tokenValue string) error
	loginFunc             func(ctx context.Context, emailAddr, password string, meta service.SessionMetadata) (*service.LoginResult, error)
	verifyMfaFunc         func(ctx context.Context, userID, otp string) (*service.AuthResponse, error)
	getProfileFunc        func(ctx context.Context, userID string) (*models.PublicUser, error)
	updateProfileFunc     func(ctx context.Context, userID string, input service.UpdateProfileInput) error
	changePasswordFunc    func(ctx context.Context, userID, currentPassword, newPassword string) error
	forgotPasswordFunc    func(ctx context.Context, emailAddr string) error
	resetPasswordFunc     func(ctx context.Context, tokenValue, newPassword, confirmPassword string) error
	getSessionsFunc       func(ctx context.Context, userID string) ([]models.Session, error)
	logoutSessionFunc     func(ctx context.Context, userID, sessionID string) error
	logoutAllSessionsFunc func(ctx context.Context, userID string) error
}

func (m *mockAuthService) Register(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, tokenValue string) error {
	if m.verifyEmailFunc != nil {
		return m.verifyEmailFunc(ctx, tokenValue)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, emailAddr, password string, meta service.SessionMetadata) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, emailAddr, password, meta)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) VerifyMfa(ctx context.Context, userID, otp string) (*service.AuthResponse, error) {
	if m.verifyMfaFunc != nil {
		return m.verifyMfaFunc(ctx, userID, otp)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID string, input service.UpdateProfileInput) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, input)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	if m.forgotPasswordFunc != nil {
		return m.forgotPasswordFunc(ctx, emailAddr)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) ResetPassword(ctx context.Context, tokenValue, newPassword, confirmPassword string) error {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, tokenValue, newPassword, confirmPassword)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) GetSessions(ctx context.Context, userID string) ([]models.Session, error) {
	if m.getSessionsFunc != nil {
		return m.getSessionsFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) LogoutSession(ctx context.Context, userID, sessionID string) error {
	if m.logoutSessionFunc != nil {
		return m.logoutSessionFunc(ctx, userID, sessionID)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) LogoutAllSessions(ctx context.Context, userID string) error {
	if m.logoutAllSessionsFunc != nil {
		return m.logoutAllSessionsFunc(ctx, userID)
	}
	return errors.New("not implemented")
}

func newAuthRouter(svc service.AuthService) *gin.Engine {
	handler := NewAuthHandler(svc, NewResponder(zap.NewNop().Sugar(), false))

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.GET("/api/auth/verify-email/:token", handler.VerifyEmail)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/forgot-password", handler.ForgotPassword)
	router.POST("/api/auth/reset-password", handler.ResetPassword)

	authed := router.Group("/", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, "user-1")
	})
	authed.POST("/api/auth/verify-mfa", handler.VerifyMfa)
	authed.GET("/api/auth/profile", handler.GetProfile)
	authed.POST("/api/auth/change-password", handler.ChangePassword)
	authed.GET("/api/auth/sessions", handler.GetSessions)
	authed.POST("/api/auth/logout", handler.Logout)
	authed.POST("/api/auth/logout-all", handler.LogoutAll)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope Response
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return rec, envelope
}

func TestRegisterEndpointCreated(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error) {
			if input.Email != "jane@x.com" || input.Role != models.RoleCustomer {
				t.Errorf("unexpected input: %+v", input)
			}
			return &service.AuthResponse{Token: "signed-token", User: models.PublicUser{ID: "user-1", Email: "jane@x.com"}}, nil
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/register", gin.H{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"email":           "jane@x.com",
		"phoneNumber":     "+1-555-123-4567",
		"password":        "Abcdef1!",
		"confirmPassword": "Abcdef1!",
		"role":            "CUSTOMER",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}
	data, ok := envelope.Data.(map[string]interface{})
	if !ok || data["token"] != "signed-token" {
		t.Errorf("envelope data = %v, want token present", envelope.Data)
	}
}

func TestRegisterEndpointRejectsInvalidRole(t *testing.T) {
	// The binding layer rejects unknown roles before the workflow runs.
	called := false
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error) {
			called = true
			return nil, nil
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/register", gin.H{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"email":           "jane@x.com",
		"phoneNumber":     "+1-555-123-4567",
		"password":        "Abcdef1!",
		"confirmPassword": "Abcdef1!",
		"role":            "SUPERUSER",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Status != "error" {
		t.Errorf("envelope status = %q, want error", envelope.Status)
	}
	if called {
		t.Error("workflow invoked despite binding failure")
	}
}

func TestRegisterEndpointConflict(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error) {
			return nil, apperrors.Conflict("Email already exists")
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/register", gin.H{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"email":           "jane@x.com",
		"phoneNumber":     "+1-555-123-4567",
		"password":        "Abcdef1!",
		"confirmPassword": "Abcdef1!",
		"role":            "CUSTOMER",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Message != "Email already exists" {
		t.Errorf("message = %q, want conflict message", envelope.Message)
	}
}

func TestLoginEndpointSuccess(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, emailAddr, password string, meta service.SessionMetadata) (*service.LoginResult, error) {
			return &service.LoginResult{Token: "signed-token", User: models.PublicUser{ID: "user-1"}}, nil
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jane@x.com",
		"password": "Abcdef1!",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}
}

func TestLoginEndpointMfaPending(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, emailAddr, password string, meta service.SessionMetadata) (*service.LoginResult, error) {
			return &service.LoginResult{MfaRequired: true}, nil
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jane@x.com",
		"password": "Abcdef1!",
	})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if envelope.Status != "pending" {
		t.Errorf("envelope status = %q, want pending", envelope.Status)
	}
	if envelope.Data != nil {
		t.Errorf("envelope data = %v, want none before MFA completes", envelope.Data)
	}
}

func TestLoginEndpointUnauthorized(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, emailAddr, password string, meta service.SessionMetadata) (*service.LoginResult, error) {
			return nil, apperrors.Auth("Invalid credentials")
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jane@x.com",
		"password": "WrongPass1!",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if envelope.Status != "error" || envelope.Message != "Invalid credentials" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestVerifyEmailEndpointPassesPathToken(t *testing.T) {
	got := ""
	svc := &mockAuthService{
		verifyEmailFunc: func(ctx context.Context, tokenValue string) error {
			got = tokenValue
			return nil
		},
	}

	rec, _ := doJSON(t, newAuthRouter(svc), http.MethodGet, "/api/auth/verify-email/abc123", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got != "abc123" {
		t.Errorf("token passed = %q, want %q", got, "abc123")
	}
}

func TestChangePasswordEndpointRejectsMismatchBeforeWorkflow(t *testing.T) {
	called := false
	svc := &mockAuthService{
		changePasswordFunc: func(ctx context.Context, userID, currentPassword, newPassword string) error {
			called = true
			return nil
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/change-password", gin.H{
		"currentPassword": "Abcdef1!",
		"newPassword":     "Newpass1!",
		"confirmPassword": "Other2@xx",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Message != "Passwords do not match" {
		t.Errorf("message = %q", envelope.Message)
	}
	if called {
		t.Error("workflow invoked despite confirmation mismatch")
	}
}

func TestForgotPasswordEndpointAlwaysSucceeds(t *testing.T) {
	svc := &mockAuthService{
		forgotPasswordFunc: func(ctx context.Context, emailAddr string) error {
			return errors.New("smtp down")
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "ghost@x.com",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 regardless of workflow outcome", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}
}

func TestLogoutEndpointSessionNotFound(t *testing.T) {
	svc := &mockAuthService{
		logoutSessionFunc: func(ctx context.Context, userID, sessionID string) error {
			return apperrors.NotFound("Session not found")
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/logout", gin.H{
		"sessionId": "session-9",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Message != "Session not found" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestLogoutAllEndpointUsesContextUser(t *testing.T) {
	got := ""
	svc := &mockAuthService{
		logoutAllSessionsFunc: func(ctx context.Context, userID string) error {
			got = userID
			return nil
		},
	}

	rec, _ := doJSON(t, newAuthRouter(svc), http.MethodPost, "/api/auth/logout-all", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got != "user-1" {
		t.Errorf("user id passed = %q, want %q", got, "user-1")
	}
}

func TestProfileEndpointValidationErrorsListed(t *testing.T) {
	svc := &mockAuthService{
		getProfileFunc: func(ctx context.Context, userID string) (*models.PublicUser, error) {
			return nil, apperrors.Validation("Password validation failed",
				"Password must be at least 8 characters long",
				"Password must contain at least one number")
		},
	}

	rec, envelope := doJSON(t, newAuthRouter(svc), http.MethodGet, "/api/auth/profile", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(envelope.Errors) != 2 {
		t.Errorf("errors = %v, want both violations listed", envelope.Errors)
	}
}
