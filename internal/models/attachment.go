package models

import "time"

// ComplaintImage is one photo attached at submission time. URL points
// into the blob store; insertion order is not preserved.
type ComplaintImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ComplaintID uint   `json:"complaint_id"`
	URL         string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComplaintVideo is the single optional video per complaint.
type ComplaintVideo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ComplaintID uint   `gorm:"uniqueIndex" json:"complaint_id"`
	URL         string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolutionProofImage is evidence attached while resolving.
type ResolutionProofImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ComplaintID uint   `json:"complaint_id"`
	URL         string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
