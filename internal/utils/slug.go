package utils

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every run of non
// alphanumeric characters into a single hyphen.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug returns base unchanged when free, otherwise base-1,
// base-2, ... until an unused slug is found in the given table.
func UniqueSlug(db *gorm.DB, table, base string) (string, error) {
	if base == "" {
		base = "item"
	}
	slug := base
	for counter := 1; ; counter++ {
		var n int64
		if err := db.Table(table).Where("slug = ?", slug).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
