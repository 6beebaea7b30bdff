package storage

import (
	"errors"
	"time"

	"github.com/nairalink/nairalink-backend/internal/models"
)

// ErrNotFound is returned by lookups that match no record. Both store
// implementations normalize their misses to this error so callers can tell
// "no row" apart from a storage failure.
var ErrNotFound = errors.New("record not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// OTP operations
	CreateOTP(otp *models.OTPVerification) (*models.OTPVerification, error)
	// GetLatestUnverifiedOTP returns the most recently created unverified
	// record for (phone, purpose), or an error if none exists.
	GetLatestUnverifiedOTP(phone, purpose string) (*models.OTPVerification, error)
	// GetLatestOTP returns the most recently created record for
	// (phone, purpose) regardless of verified state (resend rate limiting).
	GetLatestOTP(phone, purpose string) (*models.OTPVerification, error)
	GetOTPByMessageSID(sid string) (*models.OTPVerification, error)
	UpdateOTP(otp *models.OTPVerification) error
	// DeleteExpiredOTPs removes every record whose expiry is before cutoff
	// and returns how many rows were deleted.
	DeleteExpiredOTPs(cutoff time.Time) (int64, error)

	// Onboarding operations
	CreateOnboardingSession(session *models.OnboardingSession) (*models.OnboardingSession, error)
	GetOnboardingSession(sessionID string) (*models.OnboardingSession, error)
	UpdateOnboardingSession(session *models.OnboardingSession) error
}
