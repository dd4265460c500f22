package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/utils"
)

type AccountHandler struct {
	DB *gorm.DB
}

// findOrCreateProfile backfills a profile row for accounts created
// before the profile existed (signup does not create one).
func findOrCreateProfile(db *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.Profile{UserID: userID}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (h *AccountHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return fail500(c, "Failed to load account")
	}

	profile, err := findOrCreateProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Failed to load profile")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       u.ID,
				"username": u.Username,
				"email":    u.Email,
				"role":     u.Role,
			},
			"profile": profile,
		},
	})
}

type UpdateProfileReq struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
	College  string `json:"college"`
	Branch   string `json:"branch"`
	Year     string `json:"year"`
}

// UpdateProfile replaces the editable profile fields. The phone number
// must be unique across profiles since the OTP flow resolves users by
// it.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	profile, err := findOrCreateProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Failed to load profile")
	}

	phone := normalizePhone(req.Phone)
	if phone != "" {
		var other models.Profile
		err := h.DB.Where("phone = ? AND user_id <> ?", phone, userID).
			First(&other).Error
		if err == nil {
			errs := FieldErrors{}
			errs.Add("phone", "This phone number is already in use.")
			return validationFail(c, errs)
		}
		if err != gorm.ErrRecordNotFound {
			return fail500(c, "Failed to update profile")
		}
	}

	profile.FullName = strings.TrimSpace(req.FullName)
	profile.Whatsapp = normalizePhone(req.Whatsapp)
	profile.College = strings.TrimSpace(req.College)
	profile.Branch = strings.TrimSpace(req.Branch)
	profile.Year = strings.TrimSpace(req.Year)
	if phone == "" {
		profile.Phone = nil
	} else {
		profile.Phone = &phone
	}

	if err := h.DB.Save(profile).Error; err != nil {
		if isUniqueViolation(err) {
			errs := FieldErrors{}
			errs.Add("phone", "This phone number is already in use.")
			return validationFail(c, errs)
		}
		return fail500(c, "Failed to update profile")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated.",
		"data":    fiber.Map{"profile": profile},
	})
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req ChangePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return fail500(c, "Failed to load account")
	}

	if !utils.CheckPassword(u.Password, req.OldPassword) {
		errs := FieldErrors{}
		errs.Add("old_password", "Current password is incorrect")
		return validationFail(c, errs)
	}

	newPassword := strings.TrimSpace(req.NewPassword)
	if len(newPassword) < 6 {
		errs := FieldErrors{}
		errs.Add("new_password", "Password must be at least 6 characters")
		return validationFail(c, errs)
	}

	pw, err := utils.HashPassword(newPassword)
	if err != nil {
		return fail500(c, "Failed to process password")
	}
	u.Password = pw
	if err := h.DB.Save(&u).Error; err != nil {
		return fail500(c, "Failed to update password")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully.",
	})
}
