package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CategoryWeb     = "web"
	CategoryML      = "ml"
	CategoryDesktop = "desktop"
	CategoryMobile  = "mobile"
	CategoryIoT     = "iot"
	CategoryOther   = "other"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryWeb, CategoryML, CategoryDesktop, CategoryMobile, CategoryIoT, CategoryOther:
		return true
	}
	return false
}

func ValidLevel(l string) bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Project is a sellable, downloadable project. Price is in whole
// rupees. Deactivated projects stay in the table but disappear from
// every public lookup.
type Project struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Title            string `gorm:"size:200;not null" json:"title"`
	Slug             string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	ShortDescription string `gorm:"size:300" json:"short_description"`
	Description      string `gorm:"type:text" json:"description"`
	TechStack        string `gorm:"size:200" json:"tech_stack"`
	Category         string `gorm:"type:varchar(20);default:'web';index" json:"category"`
	Level            string `gorm:"type:varchar(20);default:'beginner';index" json:"level"`
	DurationWeeks    int    `gorm:"default:4" json:"duration_weeks"` // approx. time to complete
	Price            int64  `gorm:"not null" json:"price"`

	Thumbnail   string         `gorm:"type:text" json:"thumbnail"`
	ProjectFile string         `gorm:"type:text" json:"project_file"`
	Highlights  datatypes.JSON `json:"highlights"` // admin-curated bullet points

	// booleans carry no column default so that an explicit false
	// survives the insert
	IsActive   bool `gorm:"index" json:"is_active"`
	IsFeatured bool `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []ProjectImage `gorm:"foreignKey:ProjectID" json:"images,omitempty"`
}

type ProjectImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	Image     string `gorm:"type:text;not null" json:"image"`
	Caption   string `gorm:"size:200" json:"caption"`

	CreatedAt time.Time `json:"created_at"`
}
