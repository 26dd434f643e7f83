package models

import (
	"time"

	"gorm.io/gorm"
)

// VerifStatus tracks a professional's identity verification state. The
// verification workflow itself lives outside this server; only the status
// is stored.
type VerifStatus string

const (
	VerifPending  VerifStatus = "pending"
	VerifApproved VerifStatus = "approved"
)

// ProProfile holds a cleaning professional's marketplace profile. The
// coordinates and radius drive the proximity fan-out; both are optional —
// a pro without coordinates is simply excluded from distance filtering.
type ProProfile struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"uniqueIndex;not null"`
	City        string      `json:"city" gorm:"size:100"`
	Province    string      `json:"province" gorm:"size:100"`
	Lat         *float64    `json:"lat" gorm:"type:decimal(10,8)"`
	Lng         *float64    `json:"lng" gorm:"type:decimal(11,8)"`
	RadiusKM    float64     `json:"radius_km" gorm:"type:decimal(5,1);default:25"`
	VerifStatus VerifStatus `json:"verif_status" gorm:"type:varchar(20);not null;default:'pending'"`
	Bio         string      `json:"bio" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// HasCoordinates reports whether the profile can participate in proximity
// filtering.
func (p *ProProfile) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// ProProfileRequest represents the request structure for creating/updating
// a pro profile
type ProProfileRequest struct {
	City     string   `json:"city" binding:"required"`
	Province string   `json:"province" binding:"required"`
	RadiusKM *float64 `json:"radius_km"`
	Bio      string   `json:"bio"`
}
