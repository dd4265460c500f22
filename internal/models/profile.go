package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the supplemental data collected on the account page.
// It is created lazily: the first profile edit or OTP lookup creates it.
// Phone is a pointer so that profiles without one do not collide on the
// unique index.
type Profile struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	FullName string  `gorm:"size:150" json:"full_name"`
	Phone    *string `gorm:"type:varchar(20);uniqueIndex" json:"phone,omitempty"`
	Whatsapp string  `gorm:"size:20" json:"whatsapp"`
	College  string  `gorm:"size:255" json:"college"`
	Branch   string  `gorm:"size:100" json:"branch"`
	Year     string  `gorm:"size:30" json:"year"` // e.g. "3rd Year", "Final Year"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
