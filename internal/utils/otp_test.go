package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateSecureOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{
		"07012345678",
		"07112345678",
		"08012345678",
		"08112345678",
		"09012345678",
		"09112345678",
	}
	for _, phone := range valid {
		assert.True(t, ValidPhoneNumber(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"0801234567",     // too short
		"080123456789",   // too long
		"18012345678",    // no leading zero
		"06012345678",    // bad second digit
		"08212345678",    // bad third digit
		"08o12345678",    // letter
		"+2348012345678", // international format
		" 08012345678",   // whitespace
	}
	for _, phone := range invalid {
		assert.False(t, ValidPhoneNumber(phone), "expected %q to be invalid", phone)
	}
}

func TestOTPMessage(t *testing.T) {
	msg := OTPMessage("123456")
	assert.Equal(t, "Your verification code is: 123456. Valid for 10 minutes. Do not share this code.", msg)
}
