package model

import "time"

// Permission names seeded at setup time.
const (
	PermViewReports = "VIEW_REPORTS"
	PermManageUsers = "MANAGE_USERS"
	PermEditContent = "EDIT_CONTENT"
	PermViewBilling = "VIEW_BILLING"
	PermExportData  = "EXPORT_DATA"
)

// Permission is a named capability grantable to roles.
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RolePermission joins roles to permissions. The (RoleID, PermissionID)
// pair is unique; the whole set for a role is replaced atomically.
type RolePermission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RoleID       uint `json:"role_id" gorm:"not null;uniqueIndex:idx_role_permission"`
	PermissionID uint `json:"permission_id" gorm:"not null;uniqueIndex:idx_role_permission"`
}
