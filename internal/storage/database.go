package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nairalink/nairalink-backend/internal/models"
)

// DatabaseStore persists everything through GORM into PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given database connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// OTP operations

func (d *DatabaseStore) CreateOTP(otp *models.OTPVerification) (*models.OTPVerification, error) {
	if err := d.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

func (d *DatabaseStore) GetLatestUnverifiedOTP(phone, purpose string) (*models.OTPVerification, error) {
	var otp models.OTPVerification
	err := d.db.
		Where("phone_number = ? AND purpose = ? AND verified = ?", phone, purpose, false).
		Order("created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (d *DatabaseStore) GetLatestOTP(phone, purpose string) (*models.OTPVerification, error) {
	var otp models.OTPVerification
	err := d.db.
		Where("phone_number = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (d *DatabaseStore) GetOTPByMessageSID(sid string) (*models.OTPVerification, error) {
	var otp models.OTPVerification
	err := d.db.Where("message_sid = ?", sid).First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (d *DatabaseStore) UpdateOTP(otp *models.OTPVerification) error {
	return d.db.Save(otp).Error
}

func (d *DatabaseStore) DeleteExpiredOTPs(cutoff time.Time) (int64, error) {
	// Unscoped: cleanup is a hard delete, not a soft delete.
	result := d.db.Unscoped().
		Where("expires_at < ?", cutoff).
		Delete(&models.OTPVerification{})
	return result.RowsAffected, result.Error
}

// Onboarding operations

func (d *DatabaseStore) CreateOnboardingSession(session *models.OnboardingSession) (*models.OnboardingSession, error) {
	if err := d.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (d *DatabaseStore) GetOnboardingSession(sessionID string) (*models.OnboardingSession, error) {
	var session models.OnboardingSession
	err := d.db.Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DatabaseStore) UpdateOnboardingSession(session *models.OnboardingSession) error {
	return d.db.Save(session).Error
}
