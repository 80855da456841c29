package service

import (
	"strings"
	"unicode"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// passwordSpecials is the accepted special-character set for passwords.
const passwordSpecials = "!@#$%^&*"

const bcryptCost = 10

// hashPassword hashes a plaintext password for storage.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword reports whether the plaintext matches the stored hash.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validatePassword enforces the password policy. It collects every violated
// rule so the client sees the full list, not just the first failure.
func validatePassword(password string) error {
	var violations []string
	if len(password) < 8 {
		violations = append(violations, "Password must be at least 8 characters long")
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasSpecial {
		violations = append(violations, "Password must contain at least one special character (!@#$%^&*)")
	}
	if len(violations) > 0 {
		return apperrors.Validation("Password validation failed", violations...)
	}
	return nil
}
