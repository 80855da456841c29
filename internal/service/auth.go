package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/email"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"go.uber.org/zap"
)

const maxLoginAttempts = 5

// Expiry windows for the single-use token types.
const (
	emailVerificationExpiry = 24 * time.Hour
	passwordResetExpiry     = 1 * time.Hour
	otpExpiry               = 5 * time.Minute
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	Role            models.Role
}

// UpdateProfileInput carries optional profile changes; empty fields are left
// untouched.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

// SessionMetadata describes the device/context a login came from.
type SessionMetadata struct {
	Device   string
	Location string
	IP       string
}

// AuthResponse is a signed auth token plus the safe user projection.
type AuthResponse struct {
	Token string
	User  models.PublicUser
}

// LoginResult is the tagged outcome of a login attempt: either the user is
// authenticated and holds a token, or a second factor is still required.
type LoginResult struct {
	MfaRequired bool
	Token       string
	User        models.PublicUser
}

// AuthConfig carries the environment-driven policy knobs for the workflow.
type AuthConfig struct {
	FrontendURL string
	// RequireEmailVerification forces verification emails even outside
	// production.
	RequireEmailVerification bool
	// Production controls whether a failed verification email rolls back the
	// registration and whether stack details may be exposed.
	Production bool
}

// AuthService orchestrates registration, login, MFA, password and session
// workflows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	VerifyEmail(ctx context.Context, tokenValue string) error
	Login(ctx context.Context, emailAddr, password string, meta SessionMetadata) (*LoginResult, error)
	VerifyMfa(ctx context.Context, userID, otp string) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, tokenValue, newPassword, confirmPassword string) error
	GetSessions(ctx context.Context, userID string) ([]models.Session, error)
	LogoutSession(ctx context.Context, userID, sessionID string) error
	LogoutAllSessions(ctx context.Context, userID string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	sessions repository.SessionRepository
	jwt      JWTService
	mailer   email.Dispatcher
	cfg      AuthConfig
	log      *zap.SugaredLogger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	sessions repository.SessionRepository,
	jwtService JWTService,
	mailer email.Dispatcher,
	cfg AuthConfig,
	log *zap.SugaredLogger,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		jwt:      jwtService,
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.Validation("Passwords do not match")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperrors.Validation("Role must be ADMIN or CUSTOMER")
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.FindByEmail(ctx, normalizedEmail); err == nil {
		return nil, apperrors.Conflict("Email already exists")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByPhone(ctx, input.PhoneNumber); err == nil {
		return nil, apperrors.Conflict("Phone number already exists")
	} else if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Server("Registration failed. Please try again later.", err)
	}

	user := &models.User{
		Email:       normalizedEmail,
		Password:    hash,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
		IsActive:    true,
		// Auto-verify outside production unless verification is explicitly
		// required.
		IsEmailVerified: !s.cfg.Production && !s.cfg.RequireEmailVerification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if !user.IsEmailVerified {
		if err := s.sendVerificationEmail(ctx, user); err != nil {
			s.log.Errorw("failed to send verification email", "email", user.Email, "error", err)
			if s.cfg.Production {
				// Without a verification email the account is unusable; undo
				// the registration.
				if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
					s.log.Errorw("failed to roll back user after email failure", "userId", user.ID, "error", delErr)
				}
				return nil, apperrors.Server("Failed to send verification email. Please try again.", err)
			}
		}
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Server("Registration failed. Please try again later.", err)
	}

	s.log.Infow("new user registered", "email", user.Email, "role", user.Role, "emailVerified", user.IsEmailVerified)
	return &AuthResponse{Token: token, User: user.Public()}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, tokenValue string) error {
	token, err := s.tokens.FindValid(ctx, tokenValue, models.TokenEmailVerification, time.Now())
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.Validation("Invalid or expired verification token")
		}
		return err
	}

	if err := s.users.SetEmailVerified(ctx, token.UserID); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return err
	}

	s.log.Infow("email verified", "userId", token.UserID)
	return nil
}

func (s *authService) Login(ctx context.Context, emailAddr, password string, meta SessionMetadata) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			// Same message as a wrong password so the response never reveals
			// whether the email is registered.
			return nil, apperrors.Auth("Invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.Auth("Your account has been deactivated")
	}
	if !user.IsEmailVerified {
		return nil, apperrors.Auth("Please verify your email before logging in")
	}
	// Lockout is checked before any password comparison.
	if user.LoginAttempts >= maxLoginAttempts {
		return nil, apperrors.Auth("Account locked due to too many failed attempts")
	}

	if !checkPassword(user.Password, password) {
		if err := s.users.IncrementLoginAttempts(ctx, user.ID); err != nil {
			return nil, err
		}
		// Remaining attempts are logged but never returned to the client.
		s.log.Warnw("failed login attempt", "userId", user.ID,
			"remainingAttempts", maxLoginAttempts-user.LoginAttempts-1)
		return nil, apperrors.Auth("Invalid credentials")
	}

	now := time.Now()
	if err := s.users.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:   user.ID,
		Device:   meta.Device,
		Location: meta.Location,
		IP:       meta.IP,
		IsActive: true,
		LastUsed: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if user.IsMfaEnabled {
		if err := s.sendMfaCode(ctx, user); err != nil {
			return nil, apperrors.Server("Failed to send MFA code. Please try again.", err)
		}
		s.log.Infow("mfa code sent", "userId", user.ID)
		return &LoginResult{MfaRequired: true, User: user.Public()}, nil
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Server("Login failed. Please try again later.", err)
	}

	s.sendLoginAlert(ctx, user, meta, now)

	s.log.Infow("user logged in", "userId", user.ID, "role", user.Role)
	return &LoginResult{Token: token, User: user.Public()}, nil
}

func (s *authService) VerifyMfa(ctx context.Context, userID, otp string) (*AuthResponse, error) {
	token, err := s.tokens.FindValidForUser(ctx, userID, otp, models.TokenOTP, time.Now())
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Auth("Invalid or expired OTP")
		}
		return nil, err
	}

	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	authToken, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Server("MFA verification failed. Please try again.", err)
	}

	s.log.Infow("mfa verified", "userId", user.ID)
	return &AuthResponse{Token: authToken, User: user.Public()}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if input.PhoneNumber != "" && input.PhoneNumber != user.PhoneNumber {
		if existing, err := s.users.FindByPhone(ctx, input.PhoneNumber); err == nil && existing.ID != userID {
			return apperrors.Conflict("Phone number already exists")
		} else if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
			return err
		}
		user.PhoneNumber = input.PhoneNumber
	}
	if input.FirstName != "" {
		user.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		user.LastName = strings.TrimSpace(input.LastName)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.log.Infow("profile updated", "userId", userID)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !checkPassword(user.Password, currentPassword) {
		return apperrors.Auth("Current password is incorrect")
	}
	if currentPassword == newPassword {
		return apperrors.Validation("New password must be different from current password")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperrors.Server("Password change failed. Please try again.", err)
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return err
	}

	s.log.Infow("password changed", "userId", userID)
	return nil
}

// ForgotPassword never reports whether the email exists; failures after the
// lookup are logged and swallowed for the same reason.
func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			s.log.Errorw("forgot password lookup failed", "error", err)
		}
		return nil
	}

	token, err := s.createToken(ctx, user.ID, models.TokenPasswordReset, passwordResetExpiry)
	if err != nil {
		s.log.Errorw("failed to create reset token", "userId", user.ID, "error", err)
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token.Token)
	msg, err := email.ResetPasswordMessage(user.Email, user.FirstName, link)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Errorw("failed to send reset email", "userId", user.ID, "error", err)
		return nil
	}

	s.log.Infow("password reset requested", "userId", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, tokenValue, newPassword, confirmPassword string) error {
	token, err := s.tokens.FindValid(ctx, tokenValue, models.TokenPasswordReset, time.Now())
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.Validation("Invalid or expired reset token")
		}
		return err
	}

	if newPassword != confirmPassword {
		return apperrors.Validation("Passwords do not match")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperrors.Server("Password reset failed. Please try again.", err)
	}
	if err := s.users.SetPassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return err
	}

	s.log.Infow("password reset completed", "userId", token.UserID)
	return nil
}

func (s *authService) GetSessions(ctx context.Context, userID string) ([]models.Session, error) {
	return s.sessions.ListActive(ctx, userID)
}

func (s *authService) LogoutSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.sessions.FindForUser(ctx, sessionID, userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.NotFound("Session not found")
		}
		return err
	}
	if err := s.sessions.Deactivate(ctx, session.ID); err != nil {
		return err
	}
	s.log.Infow("session logged out", "userId", userID, "sessionId", sessionID)
	return nil
}

func (s *authService) LogoutAllSessions(ctx context.Context, userID string) error {
	if err := s.sessions.DeactivateAll(ctx, userID); err != nil {
		return err
	}
	s.log.Infow("all sessions logged out", "userId", userID)
	return nil
}

func (s *authService) createToken(ctx context.Context, userID string, typ models.TokenType, expiry time.Duration) (*models.Token, error) {
	value, err := randomTokenValue()
	if err != nil {
		return nil, err
	}
	token := &models.Token{
		UserID:    userID,
		Token:     value,
		Type:      typ,
		ExpiresAt: time.Now().Add(expiry),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *authService) sendVerificationEmail(ctx context.Context, user *models.User) error {
	token, err := s.createToken(ctx, user.ID, models.TokenEmailVerification, emailVerificationExpiry)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.FrontendURL, token.Token)
	msg, err := email.VerifyEmailMessage(user.Email, user.FirstName, link)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *authService) sendMfaCode(ctx context.Context, user *models.User) error {
	otp, err := randomOTP()
	if err != nil {
		return err
	}
	token := &models.Token{
		UserID:    user.ID,
		Token:     otp,
		Type:      models.TokenOTP,
		ExpiresAt: time.Now().Add(otpExpiry),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}
	msg, err := email.MfaCodeMessage(user.Email, user.FirstName, otp)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

// sendLoginAlert is best-effort; a transport failure never fails the login.
func (s *authService) sendLoginAlert(ctx context.Context, user *models.User, meta SessionMetadata, at time.Time) {
	msg, err := email.LoginAlertMessage(user.Email, user.FirstName, meta.Device, meta.Location, at)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Warnw("failed to send login alert", "userId", user.ID, "error", err)
	}
}

func randomTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// randomOTP returns a 6-digit numeric code.
func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
