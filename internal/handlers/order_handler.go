package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/metrics"
	"github.com/techsense/store_be/internal/models"
)

type OrderHandler struct {
	DB *gorm.DB
}

type BuyReq struct {
	Notes string `json:"notes"`
}

// Buy places a pending order for an active project. Payment happens
// offline; staff pick the order up from the admin side.
func (h *OrderHandler) Buy(c *fiber.Ctx) error {
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

	var req BuyReq
	_ = c.BodyParser(&req)

	order := models.Order{
		UserID:    userID,
		ProjectID: project.ID,
		Status:    models.OrderStatusPending,
		Notes:     strings.TrimSpace(req.Notes),
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return fail500(c, "Failed to place order")
	}

	metrics.OrdersCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed! Our team will contact you shortly.",
		"data": fiber.Map{
			"order": fiber.Map{
				"id":     order.ID,
				"status": order.Status,
			},
			"project": fiber.Map{
				"title": project.Title,
				"slug":  project.Slug,
				"price": project.Price,
			},
		},
	})
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("Project").Preload("Review").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return fail500(c, "Failed to load orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Your orders",
		"data":    fiber.Map{"orders": orders},
	})
}

// Detail scopes the lookup to the requesting user; someone else's
// order id 404s rather than 403s.
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Order not found")
	}

	var order models.Order
	if err := h.DB.Preload("Project").Preload("Review").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Order not found")
		}
		return fail500(c, "Failed to load order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order detail",
		"data":    fiber.Map{"order": order},
	})
}

// Cancel lets a customer back out of an order staff have not touched
// yet. Anything past pending stays as-is.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Order not found")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Order not found")
		}
		return fail500(c, "Failed to load order")
	}

	if order.Status != models.OrderStatusPending {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Only pending orders can be cancelled.",
			"data":    fiber.Map{"status": order.Status},
		})
	}

	order.Status = models.OrderStatusCancelled
	if err := h.DB.Save(&order).Error; err != nil {
		return fail500(c, "Failed to cancel order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled.",
		"data":    fiber.Map{"status": order.Status},
	})
}

type ReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitReview attaches a rating to a completed order. A second
// submission updates the existing review instead of adding a row.
func (h *OrderHandler) SubmitReview(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Order not found")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Order not found")
		}
		return fail500(c, "Failed to load order")
	}

	if order.Status != models.OrderStatusCompleted {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "You can only review completed orders.",
		})
	}

	var req ReviewReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	if req.Rating < 1 || req.Rating > 5 {
		errs := FieldErrors{}
		errs.Add("rating", "Rating must be between 1 and 5")
		return validationFail(c, errs)
	}

	var review models.OrderReview
	err = h.DB.Where("order_id = ?", order.ID).First(&review).Error
	switch {
	case err == nil:
		review.Rating = req.Rating
		review.Comment = strings.TrimSpace(req.Comment)
		err = h.DB.Save(&review).Error
	case err == gorm.ErrRecordNotFound:
		review = models.OrderReview{
			OrderID: order.ID,
			Rating:  req.Rating,
			Comment: strings.TrimSpace(req.Comment),
		}
		err = h.DB.Create(&review).Error
	}
	if err != nil {
		return fail500(c, "Failed to save review")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Thanks for your feedback!",
		"data": fiber.Map{
			"review": fiber.Map{
				"rating":  review.Rating,
				"comment": review.Comment,
			},
		},
	})
}
