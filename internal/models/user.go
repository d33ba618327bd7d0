package models

import "time"

// User is an account known to the auth layer. Role flags mirror what
// the token carries: IsSuperuser grants full access, IsStaff marks a
// department authority (the department itself comes from the
// AuthorityProfile).
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	IsStaff      bool    `json:"is_staff"`
	IsSuperuser  bool    `json:"is_superuser"`

	AuthorityProfile *AuthorityProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorityProfile binds exactly one staff user to exactly one
// department. The department reference is protected from deletion.
type AuthorityProfile struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"uniqueIndex" json:"user_id"`
	DepartmentID uint `json:"department_id"`

	Department Department `gorm:"constraint:OnDelete:RESTRICT" json:"department"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
