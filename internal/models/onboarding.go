package models

import (
	"time"

	"gorm.io/gorm"
)

// Onboarding steps, in the order a session moves through them. The sequence
// is fixed; a session can never skip ahead or move backwards.
const (
	StepVerifyPhone = "verify_phone"
	StepBVN         = "bvn"
	StepSelfie      = "selfie"
	StepPIN         = "pin"
	StepBiometric   = "biometric"
	StepDone        = "done"
)

// OnboardingSteps is the canonical step order for the registration wizard.
var OnboardingSteps = []string{
	StepVerifyPhone,
	StepBVN,
	StepSelfie,
	StepPIN,
	StepBiometric,
	StepDone,
}

// OnboardingSession tracks one customer's progress through registration.
// The PIN is stored only as a bcrypt hash; the raw PIN never touches the row.
type OnboardingSession struct {
	gorm.Model
	SessionID        string `gorm:"uniqueIndex;not null"`
	PhoneNumber      string `gorm:"not null;index"`
	Step             string `gorm:"not null"`
	BVN              string
	SelfieTaken      bool `gorm:"default:false"`
	PINHash          string
	BiometricEnabled bool `gorm:"default:false"`
	CompletedAt      *time.Time
}

// NextStep returns the step after current, or StepDone when the sequence is
// exhausted.
func NextStep(current string) string {
	for i, s := range OnboardingSteps {
		if s == current && i+1 < len(OnboardingSteps) {
			return OnboardingSteps[i+1]
		}
	}
	return StepDone
}
