package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/models"
)

type BlogHandler struct {
	DB *gorm.DB
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	var posts []models.BlogPost
	if err := h.DB.Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return fail500(c, "Failed to load posts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Blog posts",
		"data":    fiber.Map{"posts": posts},
	})
}

// Detail returns a published post plus up to three other recent posts
// for the sidebar. Drafts 404.
func (h *BlogHandler) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Post not found")
	}

	var post models.BlogPost
	if err := h.DB.Where("id = ? AND is_published = ?", id, true).
		First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Post not found")
		}
		return fail500(c, "Failed to load post")
	}

	var related []models.BlogPost
	if err := h.DB.Where("is_published = ? AND id <> ?", true, post.ID).
		Order("created_at DESC").
		Limit(3).
		Find(&related).Error; err != nil {
		return fail500(c, "Failed to load post")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Blog post",
		"data": fiber.Map{
			"post":    post,
			"related": related,
		},
	})
}
