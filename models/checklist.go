package models

import (
	"time"
)

// ChecklistCompletion records a professional fulfilling one checklist
// template for one specific request. Upsert semantics on the composite key.
// A room counts toward the completion percentage only when both IsDone is
// true AND PhotoURL is set — a checkbox alone is insufficient.
type ChecklistCompletion struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	RequestID   uint       `json:"request_id" gorm:"not null;uniqueIndex:idx_completions_request_template"`
	TemplateID  uint       `json:"template_id" gorm:"not null;uniqueIndex:idx_completions_request_template"`
	IsDone      bool       `json:"is_done" gorm:"default:false"`
	PhotoURL    string     `json:"photo_url" gorm:"size:500"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Request  CleaningRequest   `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Template ChecklistTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
}

// CountsTowardCompletion reports whether this room contributes to the
// request's completion percentage.
func (c *ChecklistCompletion) CountsTowardCompletion() bool {
	return c.IsDone && c.PhotoURL != ""
}
