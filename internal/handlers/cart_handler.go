package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/cache"
	"github.com/techsense/store_be/internal/models"
)

// GST rate applied on the cart total.
const gstRate = 0.18

type CartHandler struct {
	DB   *gorm.DB
	Cart cache.CartStore
}

// Add puts one more unit of the project in the user's cart. Adding an
// item that is already there bumps its quantity.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var project models.Project
	if err := h.DB.Where("slug = ? AND is_active = ?", c.Params("slug"), true).
		First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Project not found")
		}
		return fail500(c, "Failed to load project")
	}

	if err := h.Cart.Add(c.Context(), userID.String(), project.ID); err != nil {
		return fail500(c, "Failed to update cart")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "'" + project.Title + "' added to your cart.",
	})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Item not found")
	}

	if err := h.Cart.Remove(c.Context(), userID.String(), uint(id)); err != nil {
		return fail500(c, "Failed to update cart")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart.",
	})
}

// View prices the cart. Projects deactivated since they were added are
// silently dropped from the listing and the totals.
func (h *CartHandler) View(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	items, err := h.Cart.Items(c.Context(), userID.String())
	if err != nil {
		return fail500(c, "Failed to load cart")
	}

	lines := []fiber.Map{}
	var total int64

	if len(items) > 0 {
		ids := make([]uint, 0, len(items))
		for id := range items {
			ids = append(ids, id)
		}

		var projects []models.Project
		if err := h.DB.Where("id IN ? AND is_active = ?", ids, true).
			Find(&projects).Error; err != nil {
			return fail500(c, "Failed to load cart")
		}

		for _, p := range projects {
			qty := items[p.ID]
			subtotal := p.Price * qty
			total += subtotal
			lines = append(lines, fiber.Map{
				"project": fiber.Map{
					"id":    p.ID,
					"title": p.Title,
					"slug":  p.Slug,
					"price": p.Price,
				},
				"quantity": qty,
				"subtotal": subtotal,
			})
		}
	}

	gst := float64(total) * gstRate
	grandTotal := float64(total) + gst

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart",
		"data": fiber.Map{
			"items":       lines,
			"total":       total,
			"gst":         gst,
			"grand_total": grandTotal,
		},
	})
}
