package utils

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// HashPIN hashes a transaction PIN with bcrypt. PINs are only ever stored
// hashed; bcrypt salts per call, so equal PINs produce different hashes.
func HashPIN(pin string) (string, error) {
	if !pinPattern.MatchString(pin) {
		return "", fmt.Errorf("PIN must be exactly 4 digits")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hash), nil
}

// CheckPIN compares a candidate PIN against a stored bcrypt hash.
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
