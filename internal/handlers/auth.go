package handlers

import (
	"net/http"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
)

var errPasswordMismatch = apperrors.Validation("Passwords do not match")

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	responder   *Responder
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, responder *Responder) *AuthHandler {
	return &AuthHandler{authService: authService, responder: responder}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	FirstName       string `json:"firstName" binding:"required,min=2,max=50"`
	LastName        string `json:"lastName" binding:"required,min=2,max=50"`
	Email           string `json:"email" binding:"required,email"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=ADMIN CUSTOMER"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyMfaRequest represents the OTP verification payload.
type VerifyMfaRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// UpdateProfileRequest represents the profile update payload.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName    string `json:"lastName" binding:"omitempty,min=2,max=50"`
	PhoneNumber string `json:"phoneNumber"`
}

// ChangePasswordRequest represents the password rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ForgotPasswordRequest represents the reset request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the reset consumption payload.
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LogoutRequest represents the single-session logout payload.
type LogoutRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// Register godoc
// @Summary Register a new account
// @Description Create a user account and send a verification email when required
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            models.Role(req.Role),
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.Success(c, http.StatusCreated,
		"Registration successful! Please check your email to verify your account.",
		gin.H{"token": result.Token, "user": result.User})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Consume an email verification token
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.authService.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "Email verified successfully. You can now log in.", nil)
}

// Login godoc
// @Summary Authenticate
// @Description Log in with email and password; responds 202 when an MFA code was sent
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response
// @Success 202 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, sessionMetadata(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	if result.MfaRequired {
		h.responder.Pending(c, http.StatusAccepted, "MFA code sent to your email")
		return
	}

	h.responder.Success(c, http.StatusOK, "Login successful! Welcome back.",
		gin.H{"token": result.Token, "user": result.User})
}

// VerifyMfa godoc
// @Summary Verify MFA code
// @Description Consume the emailed OTP and return the auth token
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body VerifyMfaRequest true "OTP"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/verify-mfa [post]
func (h *AuthHandler) VerifyMfa(c *gin.Context) {
	var req VerifyMfaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	result, err := h.authService.VerifyMfa(c.Request.Context(), middleware.CurrentUserID(c), req.OTP)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.Success(c, http.StatusOK, "MFA verification successful.",
		gin.H{"token": result.Token, "user": result.User})
}

// GetProfile godoc
// @Summary Fetch own profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "", user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	err := h.authService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), service.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "Profile updated successfully.", nil)
}

// ChangePassword godoc
// @Summary Rotate password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		h.responder.Error(c, errPasswordMismatch)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "Password changed successfully.", nil)
}

// ForgotPassword godoc
// @Summary Request a password reset email
// @Description Always succeeds so responses never reveal whether an email is registered
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Email"
// @Success 200 {object} Response
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	// The service already swallows lookup and dispatch failures.
	_ = h.authService.ForgotPassword(c.Request.Context(), req.Email)

	h.responder.Success(c, http.StatusOK,
		"If your email is registered, you will receive password reset instructions.", nil)
}

// ResetPassword godoc
// @Summary Consume a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset details"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK,
		"Password reset successful. You can now log in with your new password.", nil)
}

// GetSessions godoc
// @Summary List active sessions
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/sessions [get]
func (h *AuthHandler) GetSessions(c *gin.Context) {
	sessions, err := h.authService.GetSessions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "", sessions)
}

// Logout godoc
// @Summary Deactivate one session
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Session id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err)
		return
	}

	if err := h.authService.LogoutSession(c.Request.Context(), middleware.CurrentUserID(c), req.SessionID); err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "Logged out successfully.", nil)
}

// LogoutAll godoc
// @Summary Deactivate all sessions
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.authService.LogoutAllSessions(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, "Logged out from all devices successfully.", nil)
}

func sessionMetadata(c *gin.Context) service.SessionMetadata {
	device := c.Request.UserAgent()
	if device == "" {
		device = "Unknown"
	}
	return service.SessionMetadata{
		Device:   device,
		Location: "Unknown",
		IP:       c.ClientIP(),
	}
}
