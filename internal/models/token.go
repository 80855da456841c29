package models

import "time"

// TokenType distinguishes the single-use secrets issued by the service.
type TokenType string

const (
	TokenEmailVerification TokenType = "EMAIL_VERIFICATION"
	TokenPasswordReset     TokenType = "PASSWORD_RESET"
	TokenOTP               TokenType = "OTP"
)

// Token is a single-use, typed, expiring secret bound to one user. Lookups
// must filter by value, type and expiry; consumed tokens are deleted
// immediately so a second use fails as invalid.
type Token struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"index;size:36;not null"`
	Token     string    `json:"-" gorm:"index;not null"`
	Type      TokenType `json:"type" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Token model.
func (Token) TableName() string {
	return "tokens"
}
