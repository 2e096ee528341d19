package model

import "time"

// User statuses as stored in the status column.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

// User represents an account in the admin system. Email is stored
// trimmed and lowercased; every lookup normalizes the same way.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Status       string    `json:"status" gorm:"size:20;not null;default:'Active'"`
	ProfileImage string    `json:"profile_image,omitempty" gorm:"size:512"`
	RoleID       uint      `json:"role_id" gorm:"not null;index"`
	Role         *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleName returns the associated role name or "" when the role is not loaded.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
