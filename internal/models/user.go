// Package models contains data models for the auth service.
package models

import "time"

// Role is the access level of a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User represents an account in the system. Email and phone number are unique
// across all users; the password hash never leaves this package via JSON.
type User struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null"`
	Password        string     `json:"-" gorm:"not null"`
	FirstName       string     `json:"firstName" gorm:"not null"`
	LastName        string     `json:"lastName" gorm:"not null"`
	PhoneNumber     string     `json:"phoneNumber" gorm:"uniqueIndex;not null"`
	Role            Role       `json:"role" gorm:"not null;default:CUSTOMER"`
	IsActive        bool       `json:"isActive" gorm:"not null;default:true"`
	IsEmailVerified bool       `json:"isEmailVerified" gorm:"not null;default:false"`
	IsMfaEnabled    bool       `json:"isMfaEnabled" gorm:"not null;default:false"`
	LoginAttempts   int        `json:"-" gorm:"not null;default:0"`
	LastLogin       *time.Time `json:"lastLogin"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// PublicUser is the safe projection of a User returned by the API.
type PublicUser struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	PhoneNumber     string     `json:"phoneNumber"`
	Role            Role       `json:"role"`
	IsActive        bool       `json:"isActive"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	IsMfaEnabled    bool       `json:"isMfaEnabled"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Public returns the safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNumber:     u.PhoneNumber,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		IsMfaEnabled:    u.IsMfaEnabled,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
