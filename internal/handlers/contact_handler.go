package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/models"
)

type ContactHandler struct {
	DB *gorm.DB
}

type ContactReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req ContactReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	description := strings.TrimSpace(req.Description)

	errors := FieldErrors{}
	if name == "" {
		errors.Add("name", "Name is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Invalid email format")
	}
	if description == "" {
		errors.Add("description", "Please describe your project idea")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	msg := models.ContactMessage{
		Name:        name,
		Email:       email,
		Subject:     strings.TrimSpace(req.Subject),
		Description: description,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		return fail500(c, "Failed to submit message")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thanks! Your project idea has been submitted. We will get back to you soon.",
		"data":    fiber.Map{"id": msg.ID},
	})
}
