package services

import (
	"errors"
	"fmt"
)

// Failure modes of the OTP lifecycle. Every error carries a message suitable
// for showing to the user directly.
var (
	ErrInvalidPhoneNumber = errors.New("invalid Nigerian phone number: must be 11 digits starting with 070, 071, 080, 081, 090, or 091")
	ErrStorage            = errors.New("storage operation failed")
	ErrOTPNotFound        = errors.New("no OTP found, please request a new code")
	ErrOTPExpired         = errors.New("OTP has expired, please request a new code")
	ErrAttemptsExceeded   = errors.New("maximum verification attempts exceeded, please request a new code")
	ErrInvalidCode        = errors.New("invalid OTP code")
	ErrRateLimited        = errors.New("please wait before requesting a new code")
)

// InvalidCodeError is returned when the submitted code does not match. It
// tells the caller how many attempts remain before lockout.
type InvalidCodeError struct {
	AttemptsLeft int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid OTP code (%d attempts left)", e.AttemptsLeft)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// RateLimitError is returned when a resend comes too soon after the previous
// code. RetryAfter is the wait in whole seconds, rounded up.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// Onboarding failures.
var (
	ErrSessionNotFound = errors.New("onboarding session not found")
	ErrInvalidBVN      = errors.New("BVN must be exactly 11 digits")
	ErrInvalidPIN      = errors.New("PIN must be exactly 4 digits")
)

// WrongStepError is returned when a wizard submission arrives out of order.
type WrongStepError struct {
	Expected string
	Current  string
}

func (e *WrongStepError) Error() string {
	return fmt.Sprintf("session is at step %q, expected %q", e.Current, e.Expected)
}
