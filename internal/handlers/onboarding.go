package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalink/nairalink-backend/internal/models"
	"github.com/nairalink/nairalink-backend/internal/services"
)

// OnboardingHandler drives the registration wizard over HTTP.
type OnboardingHandler struct {
	onboarding *services.OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// Start begins a new onboarding session and sends the registration OTP
func (h *OnboardingHandler) Start(c *fiber.Ctx) error {
	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
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

	session, result, err := h.onboarding.Start(req.PhoneNumber)
	if err != nil {
		return otpError(c, err)
	}

	response := fiber.Map{
		"session_id": session.SessionID,
		"step":       session.Step,
		"expires_in": result.ExpiresIn,
	}
	if result.Code != "" {
		response["code"] = result.Code
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// VerifyPhone completes the phone verification step
func (h *OnboardingHandler) VerifyPhone(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Code is required",
		})
	}

	session, err := h.onboarding.VerifyPhone(c.Params("id"), req.Code)
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

// SubmitBVN completes the BVN step
func (h *OnboardingHandler) SubmitBVN(c *fiber.Ctx) error {
	var req struct {
		BVN string `json:"bvn"`
	}
	if err := c.BodyParser(&req); err != nil || req.BVN == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "BVN is required",
		})
	}

	session, err := h.onboarding.SubmitBVN(c.Params("id"), req.BVN)
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

// SubmitSelfie completes the selfie step
func (h *OnboardingHandler) SubmitSelfie(c *fiber.Ctx) error {
	session, err := h.onboarding.SubmitSelfie(c.Params("id"))
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

// SetPIN completes the PIN step
func (h *OnboardingHandler) SetPIN(c *fiber.Ctx) error {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.BodyParser(&req); err != nil || req.PIN == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "PIN is required",
		})
	}

	session, err := h.onboarding.SetPIN(c.Params("id"), req.PIN)
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

// SetBiometric completes the biometric opt-in step
func (h *OnboardingHandler) SetBiometric(c *fiber.Ctx) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.onboarding.SetBiometric(c.Params("id"), req.Enabled)
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

// GetSession returns the current wizard state
func (h *OnboardingHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.onboarding.GetSession(c.Params("id"))
	if err != nil {
		return onboardingError(c, err)
	}
	return sessionResponse(c, session)
}

func sessionResponse(c *fiber.Ctx, session *models.OnboardingSession) error {
	return c.JSON(fiber.Map{
		"session_id":        session.SessionID,
		"phone_number":      session.PhoneNumber,
		"step":              session.Step,
		"biometric_enabled": session.BiometricEnabled,
		"completed":         session.CompletedAt != nil,
	})
}

func onboardingError(c *fiber.Ctx, err error) error {
	var wrongStep *services.WrongStepError
	if errors.As(err, &wrongStep) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":        "Out of order submission",
			"current_step": wrongStep.Current,
		})
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidBVN), errors.Is(err, services.ErrInvalidPIN):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// OTP failures surface with their own statuses during phone verification.
	return otpError(c, err)
}
