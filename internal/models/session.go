package models

import "time"

// Session records a logged-in device or context. Sessions are never hard
// deleted; logout flips the active flag.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"index;size:36;not null"`
	Device    string    `json:"device" gorm:"not null;default:Unknown"`
	Location  string    `json:"location" gorm:"not null;default:Unknown"`
	IP        string    `json:"ip" gorm:"not null;default:0.0.0.0"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	LastUsed  time.Time `json:"lastUsed" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}
