package model

import "time"

// Role names seeded at setup time. Session tokens only ever carry one of
// these values; anything else is rejected at decode time.
const (
	RoleAdmin    = "ADMIN"
	RoleUser     = "USER"
	RoleCustomer = "CUSTOMER"
)

// KnownRole reports whether name is one of the recognized role names.
func KnownRole(name string) bool {
	switch name {
	case RoleAdmin, RoleUser, RoleCustomer:
		return true
	}
	return false
}

// Role is a permission group referenced by users.
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
