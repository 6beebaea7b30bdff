package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/nairalink/nairalink-backend/internal/models"
	"github.com/nairalink/nairalink-backend/internal/storage"
	"github.com/nairalink/nairalink-backend/internal/utils"
)

// Sender is the delivery collaborator. SMSService satisfies it; tests swap
// in a fake.
type Sender interface {
	Configured() bool
	Send(to, body string) (string, error)
}

// OTPConfig holds the lifecycle policy knobs.
type OTPConfig struct {
	TTL            time.Duration // code validity window
	ResendCooldown time.Duration // minimum gap between codes per phone+purpose
	MaxAttempts    int           // verification attempts before lockout
	CleanupAge     time.Duration // grace past expiry before hard delete
	SendTimeout    time.Duration // bound on the SMS provider call
}

// DefaultOTPConfig returns the standard policy: 10-minute codes, 60-second
// resend cooldown, 3 attempts, cleanup one hour past expiry.
func DefaultOTPConfig() OTPConfig {
	return OTPConfig{
		TTL:            10 * time.Minute,
		ResendCooldown: 60 * time.Second,
		MaxAttempts:    3,
		CleanupAge:     time.Hour,
		SendTimeout:    5 * time.Second,
	}
}

// LoadOTPConfig returns the default policy with OTP_MAX_ATTEMPTS applied
// from the environment when set.
func LoadOTPConfig() OTPConfig {
	cfg := DefaultOTPConfig()
	if v := os.Getenv("OTP_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	return cfg
}

// IssueResult is returned by Issue and Resend on success. Code is only set
// when SMS delivery did not happen (dev mode or send failure); the stored
// record is the source of truth either way.
type IssueResult struct {
	ExpiresIn int    `json:"expires_in"`
	Code      string `json:"code,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// OTPService owns the full lifecycle of one-time codes: issue, deliver,
// verify, resend and expire.
type OTPService struct {
	store  storage.Store
	sender Sender
	cfg    OTPConfig

	now func() time.Time // injectable clock for tests
}

// NewOTPService creates the lifecycle manager.
func NewOTPService(store storage.Store, sender Sender, cfg OTPConfig) *OTPService {
	return &OTPService{
		store:  store,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Issue validates the phone number, generates and persists a fresh code, and
// delivers it best-effort. Persistence failure is fatal; delivery failure is
// not — the code is already durably stored, so the result downgrades to a
// warning and carries the plaintext code as the fallback channel.
func (s *OTPService) Issue(phone, purpose string) (*IssueResult, error) {
	if !utils.ValidPhoneNumber(phone) {
		return nil, ErrInvalidPhoneNumber
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	otp := &models.OTPVerification{
		PhoneNumber:    phone,
		Code:           code,
		Purpose:        purpose,
		ExpiresAt:      now.Add(s.cfg.TTL),
		Verified:       false,
		Attempts:       0,
		MaxAttempts:    s.cfg.MaxAttempts,
		DeliveryStatus: models.DeliveryStatusPending,
	}
	otp.CreatedAt = now

	if _, err := s.store.CreateOTP(otp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	result := &IssueResult{ExpiresIn: int(s.cfg.TTL.Seconds())}

	if !s.sender.Configured() {
		// Dev mode: no SMS provider, hand the code back to the caller.
		log.Printf("🔐 OTP issued (dev mode) | phone=%s purpose=%s code=%s", phone, purpose, code)
		result.Code = code
		result.Warning = "SMS delivery not configured; code returned in response"
		return result, nil
	}

	sid, err := s.sendWithTimeout(phone, utils.OTPMessage(code))
	if err != nil {
		log.Printf("⚠️  SMS delivery failed for %s: %v", phone, err)
		otp.DeliveryStatus = models.DeliveryStatusFailed
		if updateErr := s.store.UpdateOTP(otp); updateErr != nil {
			log.Printf("Failed to record delivery status: %v", updateErr)
		}
		result.Code = code
		result.Warning = "SMS delivery failed; code returned in response"
		return result, nil
	}

	otp.MessageSID = sid
	otp.DeliveryStatus = models.DeliveryStatusSent
	if err := s.store.UpdateOTP(otp); err != nil {
		log.Printf("Failed to record message SID: %v", err)
	}
	return result, nil
}

// sendWithTimeout bounds the provider call. A hung send counts as a delivery
// failure, never as an Issue failure.
func (s *OTPService) sendWithTimeout(phone, message string) (string, error) {
	type sendResult struct {
		sid string
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		sid, err := s.sender.Send(phone, message)
		done <- sendResult{sid, err}
	}()

	select {
	case r := <-done:
		return r.sid, r.err
	case <-time.After(s.cfg.SendTimeout):
		return "", fmt.Errorf("SMS send timed out after %s", s.cfg.SendTimeout)
	}
}

// Verify checks a submitted code against the most recently issued unverified
// record for (phone, purpose). Every attempt inside the time and attempt
// budget consumes one attempt, whether or not the code matches.
func (s *OTPService) Verify(phone, code, purpose string) error {
	otp, err := s.store.GetLatestUnverifiedOTP(phone, purpose)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := s.now()
	if otp.Expired(now) {
		return ErrOTPExpired
	}
	if otp.Locked() {
		// Hard lockout. The only way forward is a fresh code.
		return ErrAttemptsExceeded
	}

	otp.Attempts++
	if err := s.store.UpdateOTP(otp); err != nil {
		// The attempt still counts in memory; losing the increment is
		// preferable to blocking the user mid-flow.
		log.Printf("Failed to persist attempt count for OTP %d: %v", otp.ID, err)
	}

	if otp.Code != code {
		return &InvalidCodeError{AttemptsLeft: otp.MaxAttempts - otp.Attempts}
	}

	otp.Verified = true
	otp.VerifiedAt = &now
	if err := s.store.UpdateOTP(otp); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Resend issues a fresh code unless the previous one for (phone, purpose)
// was created less than the cooldown ago. The new record supersedes the old
// one as the verification target.
func (s *OTPService) Resend(phone, purpose string) (*IssueResult, error) {
	latest, err := s.store.GetLatestOTP(phone, purpose)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if latest != nil {
		elapsed := s.now().Sub(latest.CreatedAt)
		if elapsed < s.cfg.ResendCooldown {
			wait := int(math.Ceil((s.cfg.ResendCooldown - elapsed).Seconds()))
			return nil, &RateLimitError{RetryAfter: wait}
		}
	}

	return s.Issue(phone, purpose)
}

// Cleanup deletes records that expired more than CleanupAge ago. Idempotent;
// safe to run redundantly.
func (s *OTPService) Cleanup() (int64, error) {
	cutoff := s.now().Add(-s.cfg.CleanupAge)
	count, err := s.store.DeleteExpiredOTPs(cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return count, nil
}
