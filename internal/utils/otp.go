package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Nigerian mobile numbers: 11 digits, leading 0, then 70/71/80/81/90/91.
var phonePattern = regexp.MustCompile(`^0[789][01]\d{8}$`)

// OTPMessageTemplate is the fixed SMS body. The client apps show the same
// wording, so keep them in sync.
const OTPMessageTemplate = "Your verification code is: %s. Valid for 10 minutes. Do not share this code."

// GenerateSecureOTP generates a cryptographically secure 6-digit OTP.
// The draw is uniform over [100000, 999999], so the leading digit is never
// zero and the code is always exactly 6 characters.
func GenerateSecureOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// ValidPhoneNumber reports whether phone is a valid Nigerian mobile number
// in local format (070, 071, 080, 081, 090 or 091 prefix).
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// OTPMessage renders the SMS body for a code.
func OTPMessage(code string) string {
	return fmt.Sprintf(OTPMessageTemplate, code)
}
