package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CapabilityCanMarkReturned gates every mutating circulation and catalog
// operation, not only marking a copy as returned.
const CapabilityCanMarkReturned = "can_mark_returned"

// Predefined role names.
const (
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r" tstype:"-"`

	ID          int           `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Name        string        `bun:",nullzero" json:"name"`
	Permissions []*Permission `bun:"rel:has-many,join:id=role_id" json:"permissions,omitempty" tstype:"Permission[]"`
}

// Permission grants a named capability to every user holding the role.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p" tstype:"-"`

	ID         int    `bun:",pk,nullzero" json:"id"`
	RoleID     int    `json:"role_id"`
	Capability string `json:"capability"`
}

func (r *Role) HasCapability(capability string) bool {
	for _, p := range r.Permissions {
		if p.Capability == capability {
			return true
		}
	}
	return false
}
