package models

import "time"

// Department is seeded reference data; complaints and authority
// profiles point at it with RESTRICT semantics, so a referenced
// department cannot be deleted.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeedDepartments is the fixed set created on first boot.
var SeedDepartments = []string{
	"Municipal",
	"Police",
	"Traffic",
	"Electricity",
	"Water",
	"Sanitation",
}
