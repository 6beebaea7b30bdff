package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalink/nairalink-backend/internal/models"
	"github.com/nairalink/nairalink-backend/internal/storage"
)

// WebhookHandler receives delivery status callbacks from Twilio.
type WebhookHandler struct {
	store storage.Store
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(store storage.Store) *WebhookHandler {
	return &WebhookHandler{store: store}
}

// SMSStatus records the delivery status Twilio reports for a sent message.
// Twilio posts form-encoded MessageSid/MessageStatus pairs and retries on
// non-2xx, so unknown SIDs are acknowledged rather than errored.
func (h *WebhookHandler) SMSStatus(c *fiber.Ctx) error {
	sid := c.FormValue("MessageSid")
	status := c.FormValue("MessageStatus")
	if sid == "" || status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "MessageSid and MessageStatus are required",
		})
	}

	otp, err := h.store.GetOTPByMessageSID(sid)
	if err != nil {
		log.Printf("Status callback for unknown message SID %s (%s)", sid, status)
		return c.SendStatus(fiber.StatusOK)
	}

	switch status {
	case "sent":
		otp.DeliveryStatus = models.DeliveryStatusSent
	case "delivered":
		otp.DeliveryStatus = models.DeliveryStatusDelivered
	case "failed":
		otp.DeliveryStatus = models.DeliveryStatusFailed
	case "undelivered":
		otp.DeliveryStatus = models.DeliveryStatusUndelivered
	default:
		// Intermediate statuses (queued, sending) are not worth a write.
		return c.SendStatus(fiber.StatusOK)
	}

	if err := h.store.UpdateOTP(otp); err != nil {
		log.Printf("Failed to update delivery status for SID %s: %v", sid, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}
