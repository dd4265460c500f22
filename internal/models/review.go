package models

import "time"

// OrderReview is 1-1 with its order and only exists once the order is
// completed. Re-submitting upserts the same row.
type OrderReview struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"uniqueIndex;not null" json:"order_id"`
	Rating  int    `gorm:"not null;default:5" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
