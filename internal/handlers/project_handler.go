package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/models"
)

type ProjectHandler struct {
	DB *gorm.DB
}

// Home returns the landing-page payload: one featured project, the six
// newest active projects and the three newest published blog posts.
func (h *ProjectHandler) Home(c *fiber.Ctx) error {
	var featured *models.Project
	var f models.Project
	err := h.DB.Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		First(&f).Error
	if err == nil {
		featured = &f
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Failed to load homepage")
	}

	var latest []models.Project
	if err := h.DB.Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(6).
		Find(&latest).Error; err != nil {
		return fail500(c, "Failed to load homepage")
	}

	var posts []models.BlogPost
	if err := h.DB.Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(3).
		Find(&posts).Error; err != nil {
		return fail500(c, "Failed to load homepage")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Homepage data",
		"data": fiber.Map{
			"featured_project": featured,
			"latest_projects":  latest,
			"latest_posts":     posts,
		},
	})
}

// List returns active projects with optional filters. q matches title,
// short description and description case-insensitively; tech matches
// the tech stack; category and level are exact.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	query := h.DB.Model(&models.Project{}).Where("is_active = ?", true)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(short_description) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}
	if tech := strings.TrimSpace(c.Query("tech")); tech != "" {
		query = query.Where("LOWER(tech_stack) LIKE ?", "%"+strings.ToLower(tech)+"%")
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if level := strings.TrimSpace(c.Query("level")); level != "" {
		query = query.Where("level = ?", level)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return fail500(c, "Failed to load projects")
	}

	var techList []string
	if err := h.DB.Model(&models.Project{}).
		Where("is_active = ?", true).
		Distinct().
		Order("tech_stack ASC").
		Pluck("tech_stack", &techList).Error; err != nil {
		return fail500(c, "Failed to load projects")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Projects",
		"data": fiber.Map{
			"projects":  projects,
			"tech_list": techList,
			"filters": fiber.Map{
				"q":        c.Query("q"),
				"tech":     c.Query("tech"),
				"category": c.Query("category"),
				"level":    c.Query("level"),
			},
		},
	})
}

// Detail resolves an active project by slug, gallery images included.
// Inactive projects are indistinguishable from missing ones.
func (h *ProjectHandler) Detail(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var project models.Project
	err := h.DB.Preload("Images").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Project not found")
		}
		return fail500(c, "Failed to load project")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project detail",
		"data":    fiber.Map{"project": project},
	})
}
