package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var smsServiceInstance *SMSService

// SetSMSService sets the global SMS service instance (call from main.go)
func SetSMSService(s *SMSService) {
	smsServiceInstance = s
}

// GetSMSService returns the global SMS service instance
func GetSMSService() *SMSService {
	return smsServiceInstance
}

// SMSService sends text messages via Twilio. Missing credentials is a valid
// runtime state (local development), not an error: the service constructs
// fine, Configured() returns false, and sends report undelivered.
type SMSService struct {
	client            *twilio.RestClient
	from              string
	statusCallbackURL string
}

// NewSMSService creates an SMS service from TWILIO_* environment variables.
func NewSMSService() *SMSService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		log.Println("⚠️  Twilio credentials not found - SMS delivery disabled (dev mode)")
		return &SMSService{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &SMSService{
		client:            client,
		from:              from,
		statusCallbackURL: os.Getenv("TWILIO_STATUS_CALLBACK_URL"),
	}
}

// Configured reports whether a real Twilio client is available.
func (s *SMSService) Configured() bool {
	return s != nil && s.client != nil
}

// Send delivers an SMS and returns the provider message SID.
func (s *SMSService) Send(to, body string) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("SMS service not configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)
	if s.statusCallbackURL != "" {
		params.SetStatusCallback(s.statusCallbackURL)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS to %s: %v", to, err)
		return "", err
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return "", fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Printf("✅ SMS sent! SID: %s", sid)
	return sid, nil
}
