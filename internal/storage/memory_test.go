package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairalink/nairalink-backend/internal/models"
)

func TestMemoryStoreReturnsLatestRecord(t *testing.T) {
	store := NewMemoryStore()

	first := &models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", Code: "111111"}
	_, err := store.CreateOTP(first)
	require.NoError(t, err)

	second := &models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", Code: "222222"}
	_, err = store.CreateOTP(second)
	require.NoError(t, err)

	otp, err := store.GetLatestOTP("08012345678", "login")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)

	// Verified rows drop out of the unverified query but stay the latest
	// overall record.
	second.Verified = true
	require.NoError(t, store.UpdateOTP(second))

	otp, err = store.GetLatestUnverifiedOTP("08012345678", "login")
	require.NoError(t, err)
	assert.Equal(t, "111111", otp.Code)

	otp, err = store.GetLatestOTP("08012345678", "login")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)
}

func TestMemoryStoreScopesByPhoneAndPurpose(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateOTP(&models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", Code: "111111"})
	require.NoError(t, err)

	_, err = store.GetLatestUnverifiedOTP("08012345678", "transaction")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetLatestUnverifiedOTP("09012345678", "login")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteExpiredOTPs(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	_, err := store.CreateOTP(&models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", ExpiresAt: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	_, err = store.CreateOTP(&models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", ExpiresAt: now.Add(10 * time.Minute)})
	require.NoError(t, err)

	count, err := store.DeleteExpiredOTPs(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	otp, err := store.GetLatestOTP("08012345678", "login")
	require.NoError(t, err)
	assert.True(t, otp.ExpiresAt.After(now))
}

func TestMemoryStoreLookupByMessageSID(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateOTP(&models.OTPVerification{PhoneNumber: "08012345678", Purpose: "login", MessageSID: "SM123"})
	require.NoError(t, err)

	otp, err := store.GetOTPByMessageSID("SM123")
	require.NoError(t, err)
	assert.Equal(t, "08012345678", otp.PhoneNumber)

	_, err = store.GetOTPByMessageSID("SM999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOnboardingSessions(t *testing.T) {
	store := NewMemoryStore()

	session := &models.OnboardingSession{SessionID: "abc", PhoneNumber: "08012345678", Step: models.StepVerifyPhone}
	_, err := store.CreateOnboardingSession(session)
	require.NoError(t, err)

	got, err := store.GetOnboardingSession("abc")
	require.NoError(t, err)
	assert.Equal(t, models.StepVerifyPhone, got.Step)

	got.Step = models.StepBVN
	require.NoError(t, store.UpdateOnboardingSession(got))

	got, err = store.GetOnboardingSession("abc")
	require.NoError(t, err)
	assert.Equal(t, models.StepBVN, got.Step)

	_, err = store.GetOnboardingSession("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.UpdateOnboardingSession(&models.OnboardingSession{SessionID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}
