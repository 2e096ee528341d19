package model

import "time"

// PasswordReset is a hashed, time-bounded reset token. The raw token is
// only ever embedded in the reset URL sent to the user; the database sees
// its bcrypt hash and nothing else. A user may hold several outstanding
// records at once; consuming any one of them purges them all.
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	TokenHash string    `json:"-" gorm:"size:255;not null"`
	Expires   time.Time `json:"expires" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}
