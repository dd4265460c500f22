package models

import "time"

// ContactMessage is write-once: created on contact form submit and
// never mutated.
type ContactMessage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Email       string `gorm:"size:254;not null" json:"email"`
	Subject     string `gorm:"size:200" json:"subject"`
	Description string `gorm:"type:text;not null" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
