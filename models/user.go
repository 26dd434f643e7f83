package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleProprio UserRole = "proprio"
	RolePro     UserRole = "pro"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'proprio';check:role IN ('proprio','pro','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleProprio
	}
	return nil
}

// DisplayName returns the user's full name for notification bodies
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsPro checks if the user is a cleaning professional
func (u *User) IsPro() bool {
	return u.Role == RolePro
}

// IsProprio checks if the user is a chalet owner
func (u *User) IsProprio() bool {
	return u.Role == RoleProprio
}
