package models

import (
	"time"
)

// OfferStatus tracks a professional's bid. Within a request at most one
// offer may be accepted at any time; the acceptance transaction declines
// every other offer on the same request.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusDeclined OfferStatus = "declined"
)

// Offer is a professional's bid against an open request. The composite
// unique index enforces at most one offer per (request, pro) pair — a pro
// revising their bid overwrites the previous row via upsert.
type Offer struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	RequestID uint        `json:"request_id" gorm:"not null;uniqueIndex:idx_offers_request_pro"`
	ProID     uint        `json:"pro_id" gorm:"not null;uniqueIndex:idx_offers_request_pro"`
	Price     float64     `json:"price" gorm:"type:decimal(10,2);not null"`
	Message   string      `json:"message" gorm:"type:text"`
	Status    OfferStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Request CleaningRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Pro     User            `json:"pro,omitempty" gorm:"foreignKey:ProID"`
}

// OfferCreate represents the request structure for submitting an offer
type OfferCreate struct {
	Price   float64 `json:"price" binding:"required,gt=0"`
	Message string  `json:"message"`
}
