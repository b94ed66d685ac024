package models

import (
	"time"
)

// User model. Members and officers are linked to a portal account via
// Member.UserID / Officer.UserID; deleting a directory entry removes the
// account in the same transaction.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	Email          string     `gorm:"size:255;index"`
	HashedPassword []byte
	// Status toggles portal access for directory-linked accounts.
	Status string `gorm:"size:32;default:active"`
	RoleID *uint  `gorm:"index"`
	Role   Role   `gorm:"foreignKey:RoleID;references:ID"`
}
