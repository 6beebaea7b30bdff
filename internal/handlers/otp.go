package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalink/nairalink-backend/internal/services"
)

// OTPHandler exposes the OTP lifecycle over HTTP for the client screens.
type OTPHandler struct {
	otp *services.OTPService
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(otp *services.OTPService) *OTPHandler {
	return &OTPHandler{otp: otp}
}

type otpRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
	Purpose     string `json:"purpose"`
}

func (r *otpRequest) purposeOrDefault() string {
	if r.Purpose == "" {
		return "registration"
	}
	return r.Purpose
}

// Send issues a fresh OTP for a phone number
func (h *OTPHandler) Send(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	result, err := h.otp.Issue(req.PhoneNumber, req.purposeOrDefault())
	if err != nil {
		return otpError(c, err)
	}

	response := fiber.Map{
		"success":    true,
		"expires_in": result.ExpiresIn,
	}
	if result.Code != "" {
		response["code"] = result.Code
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	return c.JSON(response)
}

// Verify checks a submitted OTP code
func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.PhoneNumber == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number and code are required",
		})
	}

	if err := h.otp.Verify(req.PhoneNumber, req.Code, req.purposeOrDefault()); err != nil {
		return otpError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP verified successfully",
	})
}

// Resend issues a new OTP, subject to the per-phone cooldown
func (h *OTPHandler) Resend(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	result, err := h.otp.Resend(req.PhoneNumber, req.purposeOrDefault())
	if err != nil {
		return otpError(c, err)
	}

	response := fiber.Map{
		"success":    true,
		"expires_in": result.ExpiresIn,
	}
	if result.Code != "" {
		response["code"] = result.Code
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	return c.JSON(response)
}

// otpError maps lifecycle errors to HTTP responses. Every failure carries a
// user-facing message.
func otpError(c *fiber.Ctx, err error) error {
	var invalidCode *services.InvalidCodeError
	if errors.As(err, &invalidCode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":       false,
			"error":         "Invalid OTP code",
			"attempts_left": invalidCode.AttemptsLeft,
		})
	}

	var rateLimited *services.RateLimitError
	if errors.As(err, &rateLimited) {
		c.Set("Retry-After", strconv.Itoa(rateLimited.RetryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":     false,
			"error":       rateLimited.Error(),
			"retry_after": rateLimited.RetryAfter,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidPhoneNumber):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrOTPNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrOTPExpired):
		status = fiber.StatusGone
	case errors.Is(err, services.ErrAttemptsExceeded):
		status = fiber.StatusLocked
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
