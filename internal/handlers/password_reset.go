package handlers

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/cache"
	"github.com/techsense/store_be/internal/metrics"
	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/services/mail"
	"github.com/techsense/store_be/internal/services/sms"
	"github.com/techsense/store_be/internal/utils"
)

// ResetCookie carries the reset-session id minted after a successful
// OTP verification. It stands in for the "phone verified" session flag.
const ResetCookie = "ts_reset"

type PasswordResetHandler struct {
	DB        *gorm.DB
	JWTSecret string
	BaseURL   string
	OTP       cache.OTPStore
	Mail      mail.Mailer
	SMS       sms.Sender
}

// SendOTP issues a 6-digit code for the given phone, valid for 180
// seconds. The SMS dispatch is best-effort: a gateway failure is
// logged inside the gateway and does not fail the request.
func (h *PasswordResetHandler) SendOTP(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"status": "method_not_allowed"})
	}

	phone := normalizePhone(c.FormValue("phone"))
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "no_phone"})
	}

	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	if err := h.OTP.SaveOTP(c.Context(), phone, code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "failed"})
	}

	h.SMS.Send(phone, "Your Techsense OTP is: "+code)
	metrics.OTPSent.Inc()

	return c.JSON(fiber.Map{"status": "sent"})
}

// VerifyOTP compares the submitted code against the cached one. On a
// match it mints a single-use reset session tied to the phone and
// hands the session id back as a cookie.
func (h *PasswordResetHandler) VerifyOTP(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"status": "method_not_allowed"})
	}

	phone := normalizePhone(c.FormValue("phone"))
	otpInput := strings.TrimSpace(c.FormValue("otp"))
	if phone == "" || otpInput == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "invalid_data"})
	}

	attempts, err := h.OTP.IncrAttempts(c.Context(), phone)
	if err != nil || attempts > cache.MaxOTPAttempts {
		return c.JSON(fiber.Map{"status": "failed"})
	}

	code, err := h.OTP.GetOTP(c.Context(), phone)
	if err != nil || code == "" || code != otpInput {
		return c.JSON(fiber.Map{"status": "failed"})
	}

	sessionID := uuid.NewString()
	if err := h.OTP.SaveResetSession(c.Context(), sessionID, phone); err != nil {
		return c.JSON(fiber.Map{"status": "failed"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     ResetCookie,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   int(cache.ResetSessionTTL.Seconds()),
	})

	metrics.OTPVerified.Inc()
	return c.JSON(fiber.Map{"status": "verified"})
}

// ResetPassword is the final step of the OTP flow. It requires a live
// reset session from the immediately preceding verify step, resolves
// the verified phone to exactly one profile/user pair, and consumes
// the session on success.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	sessionID := c.Cookies(ResetCookie)
	if sessionID == "" {
		return fail(c, fiber.StatusBadRequest, "Please verify OTP before resetting your password.")
	}

	phone, err := h.OTP.GetResetSession(c.Context(), sessionID)
	if err != nil || phone == "" {
		return fail(c, fiber.StatusBadRequest, "Please verify OTP before resetting your password.")
	}

	password := strings.TrimSpace(c.FormValue("password"))
	if len(password) < 6 {
		errs := FieldErrors{}
		errs.Add("password", "Password must be at least 6 characters")
		return validationFail(c, errs)
	}

	var profile models.Profile
	if err := h.DB.Where("phone = ?", phone).First(&profile).Error; err != nil {
		return fail(c, fiber.StatusBadRequest, "No user found for this phone number.")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", profile.UserID).Error; err != nil {
		return fail(c, fiber.StatusBadRequest, "No user found for this phone number.")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password")
	}
	u.Password = pw
	if err := h.DB.Save(&u).Error; err != nil {
		return fail500(c, "Failed to update password")
	}

	// single use: the verified-phone marker dies with the session
	_ = h.OTP.DeleteResetSession(c.Context(), sessionID)
	c.Cookie(&fiber.Cookie{
		Name:     ResetCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated successfully! Please login.",
	})
}

type EmailResetReq struct {
	Email string `json:"email"`
}

// RequestEmailReset starts the email-link flow that runs in parallel
// to the OTP flow. The response never reveals whether the address is
// registered.
func (h *PasswordResetHandler) RequestEmailReset(c *fiber.Ctx) error {
	var req EmailResetReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		errs := FieldErrors{}
		errs.Add("email", "A valid email is required")
		return validationFail(c, errs)
	}

	var u models.User
	if err := h.DB.Where("email = ? AND is_active = ?", email, true).First(&u).Error; err == nil {
		token := utils.MakeAccountToken(h.JWTSecret, &u)
		link := strings.TrimRight(h.BaseURL, "/") + "/api/reset/" + u.ID.String() + "/" + token
		body := "Hi " + u.Username + ",\n\n" +
			"We received a request to reset your password. Click the link below to choose a new one:\n" +
			link + "\n\n" +
			"If you did not request this, you can ignore this email."
		h.Mail.Send(u.Email, "Reset your Techsense password", body)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If that email is registered, a reset link has been sent.",
	})
}

type ConfirmResetReq struct {
	Password string `json:"password"`
}

// ConfirmEmailReset consumes the emailed link. Changing the password
// rewrites the hash the token MAC covers, so the link self-invalidates.
func (h *PasswordResetHandler) ConfirmEmailReset(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired reset link.")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired reset link.")
	}

	if !utils.CheckAccountToken(h.JWTSecret, c.Params("token"), &u) {
		return fail(c, fiber.StatusBadRequest, "Invalid or expired reset link.")
	}

	var req ConfirmResetReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	password := strings.TrimSpace(req.Password)
	if len(password) < 6 {
		errs := FieldErrors{}
		errs.Add("password", "Password must be at least 6 characters")
		return validationFail(c, errs)
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password")
	}
	u.Password = pw
	if err := h.DB.Save(&u).Error; err != nil {
		return fail500(c, "Failed to update password")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated successfully! Please login.",
	})
}
