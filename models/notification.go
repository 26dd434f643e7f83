package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType enumerates the marketplace events surfaced to users
type NotificationType string

const (
	NotifNewOffer          NotificationType = "new_offer"
	NotifOfferAccepted     NotificationType = "offer_accepted"
	NotifOfferDeclined     NotificationType = "offer_declined"
	NotifNewMessage        NotificationType = "new_message"
	NotifNewRequestNearby  NotificationType = "new_request_nearby"
	NotifCleaningCompleted NotificationType = "cleaning_completed"
)

// Notification is the persisted in-app notification row. The row is the
// source of truth for the notification bell; the email relay is best-effort
// on top of it.
type Notification struct {
	ID     uint             `json:"id" gorm:"primaryKey"`
	UserID uint             `json:"user_id" gorm:"not null;index"`
	Type   NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title  string           `json:"title" gorm:"size:255;not null"`
	Body   string           `json:"body" gorm:"type:text"`
	Data   datatypes.JSON   `json:"data"`
	ReadAt *time.Time       `json:"read_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// IsRead reports whether the recipient has read the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
