package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP purposes. Each purpose scopes a code to one flow, so a registration
// code can never be replayed to approve a transaction.
const (
	OTPPurposeRegistration = "registration"
	OTPPurposeLogin        = "login"
	OTPPurposeTransaction  = "transaction"
)

// Delivery statuses reported back by the SMS provider.
const (
	DeliveryStatusPending     = "pending"
	DeliveryStatusSent        = "sent"
	DeliveryStatusDelivered   = "delivered"
	DeliveryStatusFailed      = "failed"
	DeliveryStatusUndelivered = "undelivered"
)

type OTPVerification struct {
	gorm.Model
	PhoneNumber    string    `gorm:"not null;index"` // 11-digit Nigerian format
	Code           string    `gorm:"not null"`
	Purpose        string    `gorm:"not null;index"`
	ExpiresAt      time.Time `gorm:"not null"`
	Verified       bool      `gorm:"default:false"`
	VerifiedAt     *time.Time
	Attempts       int    `gorm:"default:0"`
	MaxAttempts    int    `gorm:"default:3"`
	MessageSID     string `gorm:"index"` // provider message ID, empty in dev mode
	DeliveryStatus string
}

// Expired reports whether the code can no longer be used, regardless of
// verified/attempts state.
func (o *OTPVerification) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Locked reports whether the record has consumed all verification attempts.
func (o *OTPVerification) Locked() bool {
	return o.Attempts >= o.MaxAttempts
}
