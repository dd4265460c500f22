package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/middleware"
	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/services/mail"
	"github.com/techsense/store_be/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
	BaseURL   string
	Mail      mail.Mailer
}

type SignupReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup creates an inactive account and emails a verification link.
// The account is created even when the email cannot be delivered; the
// response message just changes.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	confirm := strings.TrimSpace(req.ConfirmPassword)

	errors := FieldErrors{}
	if username == "" {
		errors.Add("username", "Username is required")
	} else if len(username) > 150 {
		errors.Add("username", "Username must be at most 150 characters")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Invalid email format")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if confirm != "" && confirm != password {
		errors.Add("confirm_password", "Passwords do not match")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "This email is already registered.")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Something went wrong")
	}
	if err := h.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("username", "This username is already taken.")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Something went wrong")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password")
	}

	u := models.User{
		Username: username,
		Email:    email,
		Password: pw,
		Role:     models.RoleCustomer,
		IsActive: false,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return fail(c, fiber.StatusBadRequest, "Account already exists")
		}
		return fail500(c, "Failed to create account")
	}

	token := utils.MakeAccountToken(h.JWTSecret, &u)
	link := strings.TrimRight(h.BaseURL, "/") + "/api/verify-email/" + u.ID.String() + "/" + token
	body := "Hi " + u.Username + ",\n\n" +
		"Please click the link below to verify your email address:\n" + link + "\n\n" +
		"If you did not create this account, you can ignore this email."

	msg := "Account created! Please check your email and verify your account before logging in."
	if !h.Mail.Send(u.Email, "Verify your Techsense account", body) {
		msg = "Account created, but the verification email could not be sent. Please try again later."
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": msg,
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       u.ID,
				"username": u.Username,
				"email":    u.Email,
			},
		},
	})
}

// VerifyEmail consumes the link from the signup email. The token is
// bound to the account state, so a second click on an already-consumed
// link fails and an active account is never re-activated.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired verification link.")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired verification link.")
	}

	if u.IsActive || !utils.CheckAccountToken(h.JWTSecret, c.Params("token"), &u) {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired verification link.")
	}

	u.IsActive = true
	if err := h.DB.Save(&u).Error; err != nil {
		return fail500(c, "Failed to verify account")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Your email has been verified! Please login.",
	})
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusOK, "invalid body")
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if username == "" {
		errors.Add("username", "Username is required")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var u models.User
	if err := h.DB.Where("username = ?", username).First(&u).Error; err != nil {
		return fail(c, fiber.StatusOK, "Invalid username or password.")
	}

	if !utils.CheckPassword(u.Password, password) {
		return fail(c, fiber.StatusOK, "Invalid username or password.")
	}

	if !u.IsActive {
		return fail(c, fiber.StatusOK, "Your email is not verified yet. Please check your inbox for the verification link.")
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail500(c, "Failed to create session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       u.ID,
				"username": u.Username,
				"email":    u.Email,
				"role":     u.Role,
			},
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
