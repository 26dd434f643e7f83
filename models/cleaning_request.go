package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CleaningRequestStatus is the request lifecycle state machine:
// open -> confirmed -> completed. There is no transition back to open —
// an accepted offer is final within this model.
type CleaningRequestStatus string

const (
	RequestStatusOpen      CleaningRequestStatus = "open"
	RequestStatusConfirmed CleaningRequestStatus = "confirmed"
	RequestStatusCompleted CleaningRequestStatus = "completed"
)

// TaskItem is one named boolean-state entry in a request's task lists
// (supplies on site, laundry, spa).
type TaskItem struct {
	Name      string `json:"name"`
	Available bool   `json:"available,omitempty"`
	Checked   bool   `json:"checked,omitempty"`
}

// CleaningRequest is a single scheduled cleaning job posted against one
// chalet. CompletionNotifiedAt is the exactly-once latch for the 100%
// checklist signal: it is set by a conditional update and never cleared.
type CleaningRequest struct {
	ID              uint                  `json:"id" gorm:"primaryKey"`
	ChaletID        uint                  `json:"chalet_id" gorm:"not null;index"`
	OwnerID         uint                  `json:"owner_id" gorm:"not null;index"`
	ScheduledDate   string                `json:"scheduled_date" gorm:"size:10;not null"` // YYYY-MM-DD
	ScheduledTime   string                `json:"scheduled_time" gorm:"size:5;not null"`  // HH:MM
	DeadlineTime    string                `json:"deadline_time" gorm:"size:5"`
	EstimatedHours  float64               `json:"estimated_hours" gorm:"type:decimal(4,1);default:3"`
	IsUrgent        bool                  `json:"is_urgent" gorm:"default:false"`
	SuggestedBudget *float64              `json:"suggested_budget" gorm:"type:decimal(10,2)"`
	SpecialNotes    string                `json:"special_notes" gorm:"type:text"`
	SuppliesOnSite  datatypes.JSON        `json:"supplies_on_site"`
	LaundryTasks    datatypes.JSON        `json:"laundry_tasks"`
	SpaTasks        datatypes.JSON        `json:"spa_tasks"`
	Status          CleaningRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`

	AssignedProID        *uint      `json:"assigned_pro_id" gorm:"index"`
	AgreedPrice          *float64   `json:"agreed_price" gorm:"type:decimal(10,2)"`
	AccessDisclosedAt    *time.Time `json:"access_disclosed_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CompletionNotifiedAt *time.Time `json:"completion_notified_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Chalet               Chalet                `json:"chalet,omitempty" gorm:"foreignKey:ChaletID"`
	AssignedPro          *User                 `json:"assigned_pro,omitempty" gorm:"foreignKey:AssignedProID"`
	Offers               []Offer               `json:"offers,omitempty" gorm:"foreignKey:RequestID"`
	ChecklistCompletions []ChecklistCompletion `json:"checklist_completions,omitempty" gorm:"foreignKey:RequestID"`
}

// CleaningRequestCreate represents the request structure for creating a
// cleaning request
type CleaningRequestCreate struct {
	ChaletID        uint       `json:"chalet_id" binding:"required"`
	ScheduledDate   string     `json:"scheduled_date" binding:"required"`
	ScheduledTime   string     `json:"scheduled_time" binding:"required"`
	DeadlineTime    string     `json:"deadline_time"`
	EstimatedHours  float64    `json:"estimated_hours"`
	IsUrgent        bool       `json:"is_urgent"`
	SuggestedBudget *float64   `json:"suggested_budget"`
	SpecialNotes    string     `json:"special_notes"`
	SuppliesOnSite  []TaskItem `json:"supplies_on_site"`
	LaundryTasks    []TaskItem `json:"laundry_tasks"`
	SpaTasks        []TaskItem `json:"spa_tasks"`
}
