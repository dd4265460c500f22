package models

import "time"

type BlogPost struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Content     string `gorm:"type:text" json:"content"`
	Image       string `gorm:"type:text" json:"image"`
	IsPublished bool   `gorm:"default:false;index" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
