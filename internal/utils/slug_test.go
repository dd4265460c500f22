package utils

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Chat App!!  ", "chat-app"},
		{"E-Commerce (2024)", "e-commerce-2024"},
		{"already-a-slug", "already-a-slug"},
		{"ALL CAPS & SYMBOLS %$#", "all-caps-symbols"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:uniqueslug?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec("CREATE TABLE projects (id INTEGER PRIMARY KEY, slug TEXT UNIQUE)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	want := []string{"hello-world", "hello-world-1", "hello-world-2"}
	for _, expected := range want {
		got, err := UniqueSlug(db, "projects", "hello-world")
		if err != nil {
			t.Fatalf("UniqueSlug: %v", err)
		}
		if got != expected {
			t.Fatalf("UniqueSlug = %q, want %q", got, expected)
		}
		if err := db.Exec("INSERT INTO projects (slug) VALUES (?)", got).Error; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	// empty base falls back to a placeholder
	got, err := UniqueSlug(db, "projects", "")
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if got != "item" {
		t.Fatalf("UniqueSlug(\"\") = %q, want \"item\"", got)
	}
}
