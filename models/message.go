package models

import (
	"time"
)

// Message is one entry in the append-only chat log attached to a cleaning
// request. Messages are never edited or deleted; the recipient only marks
// them read.
type Message struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	RequestID uint       `json:"request_id" gorm:"not null;index"`
	SenderID  uint       `json:"sender_id" gorm:"not null"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	ReadAt    *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`

	Request CleaningRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Sender  User            `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// MessageCreate represents the request structure for posting a message
type MessageCreate struct {
	Body string `json:"body" binding:"required"`
}
