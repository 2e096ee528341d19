package model

import "time"

// UserActivity is an audit trail entry. Writes are best effort: a failed
// insert is logged server-side and never fails the triggering operation.
type UserActivity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"size:100;not null"`
	Details   string    `json:"details,omitempty" gorm:"size:512"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"size:64"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}
