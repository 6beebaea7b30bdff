package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalink/nairalink-backend/internal/handlers"
	"github.com/nairalink/nairalink-backend/internal/middleware"
	"github.com/nairalink/nairalink-backend/internal/services"
	"github.com/nairalink/nairalink-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, otpService *services.OTPService, onboardingService *services.OnboardingService) {

	otpHandler := handlers.NewOTPHandler(otpService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	webhookHandler := handlers.NewWebhookHandler(store)

	// API routes
	api := app.Group("/api")

	// OTP lifecycle - consumed by the verification screens
	otp := api.Group("/otp")
	otp.Post("/send", otpHandler.Send)
	otp.Post("/verify", otpHandler.Verify)
	otp.Post("/resend", otpHandler.Resend)

	// Onboarding wizard
	onboarding := api.Group("/onboarding")
	onboarding.Post("/start", onboardingHandler.Start)
	onboarding.Get("/:id", onboardingHandler.GetSession)
	onboarding.Post("/:id/verify-phone", onboardingHandler.VerifyPhone)
	onboarding.Post("/:id/bvn", onboardingHandler.SubmitBVN)
	onboarding.Post("/:id/selfie", onboardingHandler.SubmitSelfie)
	onboarding.Post("/:id/pin", onboardingHandler.SetPIN)
	onboarding.Post("/:id/biometric", onboardingHandler.SetBiometric)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Twilio delivery status callback - signature validated in production
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/sms-status", webhookHandler.SMSStatus)
	} else {
		webhooks.Post("/sms-status", middleware.ValidateTwilioSignature(), webhookHandler.SMSStatus)
	}
}
