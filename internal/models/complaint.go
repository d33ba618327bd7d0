package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"urbaniq/backend/internal/tracking"
)

// Complaint categories.
const (
	CategoryGarbage     = "garbage"
	CategoryRoad        = "road"
	CategoryWater       = "water"
	CategoryElectricity = "electricity"
	CategoryOther       = "other"
)

// Complaint is the central aggregate. The internal ID is never shown
// to citizens; lookups from the tracking page go through TrackingID.
type Complaint struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	TrackingID string `gorm:"type:uuid;uniqueIndex" json:"tracking_id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"user"`

	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      *string `json:"location,omitempty"`
	ComplaintType string  `gorm:"default:other" json:"complaint_type"`
	Status        string  `gorm:"default:open" json:"status"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`

	AssignedDepartmentID uint       `json:"assigned_department_id"`
	AssignedDepartment   Department `gorm:"constraint:OnDelete:RESTRICT" json:"assigned_department"`

	PersonInCharge *string `json:"person_in_charge,omitempty"`
	ResolutionNote *string `json:"resolution_note,omitempty"`

	// Reserved audit trail; stored and returned untouched.
	Timeline datatypes.JSON `json:"timeline,omitempty"`

	Images           []ComplaintImage       `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	Video            *ComplaintVideo        `gorm:"constraint:OnDelete:CASCADE" json:"video,omitempty"`
	ResolutionProofs []ResolutionProofImage `gorm:"constraint:OnDelete:CASCADE" json:"resolution_proofs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the external tracking identity. The storage
// layer regenerates and retries on a unique-constraint collision.
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.TrackingID == "" {
		c.TrackingID = tracking.NewID()
	}
	return nil
}

// TrackingLink is the citizen-facing relative path for this complaint.
func (c *Complaint) TrackingLink() string {
	return "/reports/track/" + c.TrackingID
}
