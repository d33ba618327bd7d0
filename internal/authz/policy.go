// Package authz decides who may see and mutate complaints. All
// decisions are pure functions over the actor context resolved at the
// request boundary; nothing here touches storage.
package authz

import "urbaniq/backend/internal/models"

// Actor is the resolved identity of the requesting user. DepartmentID
// is nil for staff without an authority profile; such staff see
// nothing (fail closed, not an error).
type Actor struct {
	UserID       uint
	IsSuperuser  bool
	IsStaff      bool
	DepartmentID *uint
	Email        string
	PhoneNumber  *string
}

// ScopeKind partitions the candidate set for list queries.
type ScopeKind int

const (
	// ScopeNone yields an empty result set.
	ScopeNone ScopeKind = iota
	// ScopeAll yields every non-deleted complaint.
	ScopeAll
	// ScopeDepartment restricts to one department.
	ScopeDepartment
	// ScopeOwner restricts to the actor's own complaints.
	ScopeOwner
)

// Scope describes which complaints an actor may list.
type Scope struct {
	Kind         ScopeKind
	DepartmentID uint
	OwnerID      uint
}

// VisibleScope returns the list pre-filter for the actor.
func VisibleScope(actor Actor) Scope {
	switch {
	case actor.IsSuperuser:
		return Scope{Kind: ScopeAll}
	case actor.IsStaff:
		if actor.DepartmentID == nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeDepartment, DepartmentID: *actor.DepartmentID}
	default:
		return Scope{Kind: ScopeOwner, OwnerID: actor.UserID}
	}
}

// CanView reports whether the actor may read the complaint. Deleted
// complaints are invisible to everyone.
func CanView(actor Actor, c *models.Complaint) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if c.UserID == actor.UserID {
		return true
	}
	if actor.IsSuperuser {
		return true
	}
	if actor.IsStaff && actor.DepartmentID != nil {
		return *actor.DepartmentID == c.AssignedDepartmentID
	}
	return false
}

// CanSetStatus reports whether the actor may advance the lifecycle.
// Citizens never change status, even on their own complaints.
func CanSetStatus(actor Actor, c *models.Complaint) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if actor.IsSuperuser {
		return true
	}
	if actor.IsStaff && actor.DepartmentID != nil {
		return *actor.DepartmentID == c.AssignedDepartmentID
	}
	return false
}

// CanSoftDelete reports whether the actor may soft-delete the
// complaint. Owners and superusers only.
func CanSoftDelete(actor Actor, c *models.Complaint) bool {
	if c == nil || !c.IsActive {
		return false
	}
	return actor.IsSuperuser || c.UserID == actor.UserID
}
