package models

import "time"

// ActivityType labels an audit entry created by admin actions.
type ActivityType string

const (
	ActivityRoleChange         ActivityType = "ROLE_CHANGE"
	ActivityAccountDeactivated ActivityType = "ACCOUNT_DEACTIVATED"
	ActivityAccountReactivated ActivityType = "ACCOUNT_REACTIVATED"
)

// UserActivity is an append-only audit row; it is never updated after insert.
type UserActivity struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	UserID    string       `json:"userId" gorm:"index;size:36;not null"`
	Type      ActivityType `json:"type" gorm:"not null"`
	Details   string       `json:"details"`
	CreatedAt time.Time    `json:"createdAt" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the UserActivity model.
func (UserActivity) TableName() string {
	return "user_activities"
}
