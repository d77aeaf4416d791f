package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u" tstype:"-"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	IsActive     bool      `json:"is_active"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty" tstype:"Role"`
}

// UserID identifies the user as a borrower.
func (u *User) UserID() int {
	return u.ID
}

// HasCapability needs Role.Permissions to be loaded.
func (u *User) HasCapability(capability string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.HasCapability(capability)
}

// Capabilities lists the capability names granted through the user's role.
func (u *User) Capabilities() []string {
	capabilities := []string{}
	if u.Role == nil {
		return capabilities
	}
	for _, p := range u.Role.Permissions {
		capabilities = append(capabilities, p.Capability)
	}
	return capabilities
}
