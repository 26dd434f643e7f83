package models

import (
	"time"

	"gorm.io/gorm"
)

// Chalet is a property owned by a proprietor. The access fields are
// sensitive: they are disclosed to a professional only after their offer is
// accepted (CleaningRequest.AccessDisclosedAt).
type Chalet struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OwnerID    uint     `json:"owner_id" gorm:"not null;index"`
	Name       string   `json:"name" gorm:"size:200;not null"`
	Address    string   `json:"address" gorm:"type:text;not null"`
	City       string   `json:"city" gorm:"size:100;not null"`
	Province   string   `json:"province" gorm:"size:100"`
	PostalCode string   `json:"postal_code" gorm:"size:10"`
	Lat        *float64 `json:"lat" gorm:"type:decimal(10,8)"`
	Lng        *float64 `json:"lng" gorm:"type:decimal(11,8)"`
	Bedrooms   int      `json:"bedrooms" gorm:"default:1"`
	Bathrooms  int      `json:"bathrooms" gorm:"default:1"`

	// Access details — post-acceptance only
	AccessCode   string `json:"access_code,omitempty" gorm:"size:50"`
	KeyBox       string `json:"key_box,omitempty" gorm:"size:255"`
	ParkingInfo  string `json:"parking_info,omitempty" gorm:"type:text"`
	WifiName     string `json:"wifi_name,omitempty" gorm:"size:100"`
	WifiPassword string `json:"wifi_password,omitempty" gorm:"size:100"`
	SpecialNotes string `json:"special_notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Owner              User                `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	ChecklistTemplates []ChecklistTemplate `json:"checklist_templates,omitempty" gorm:"foreignKey:ChaletID"`
}

// HasCoordinates reports whether the chalet has been geocoded
func (c *Chalet) HasCoordinates() bool {
	return c.Lat != nil && c.Lng != nil
}

// RedactAccess blanks the sensitive access fields before serving the chalet
// to a professional who has not been granted access yet.
func (c *Chalet) RedactAccess() {
	c.AccessCode = ""
	c.KeyBox = ""
	c.ParkingInfo = ""
	c.WifiName = ""
	c.WifiPassword = ""
	c.SpecialNotes = ""
}

// ChecklistTemplate is an owner-defined room that must be photographed to
// prove cleaning. Positions are dense and owner-assigned; re-saving a
// chalet's template list deletes and recreates the full set, so template IDs
// are not stable across edits.
type ChecklistTemplate struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	ChaletID          uint   `json:"chalet_id" gorm:"not null;index"`
	RoomName          string `json:"room_name" gorm:"size:200;not null"`
	Position          int    `json:"position" gorm:"not null"`
	PhotoReferenceURL string `json:"photo_reference_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChaletCreate represents the request structure for creating a chalet
type ChaletCreate struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	City         string `json:"city" binding:"required"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	AccessCode   string `json:"access_code"`
	KeyBox       string `json:"key_box"`
	ParkingInfo  string `json:"parking_info"`
	WifiName     string `json:"wifi_name"`
	WifiPassword string `json:"wifi_password"`
	SpecialNotes string `json:"special_notes"`
}
