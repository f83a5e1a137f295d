package model

import (
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User is a panchayat administrator. Admins manage exactly one tenant;
// super admins manage all of them and have an empty TenantID.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	TenantID       string    `json:"tenant_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanManage reports whether the user may edit content of tenantID.
func (u *User) CanManage(tenantID string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.Role == RoleAdmin && u.TenantID != "" && u.TenantID == tenantID
}
