package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairalink/nairalink-backend/internal/models"
	"github.com/nairalink/nairalink-backend/internal/storage"
	"github.com/nairalink/nairalink-backend/internal/utils"
)

func newOnboardingFixture() (*OnboardingService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	otp := NewOTPService(store, &fakeSender{}, DefaultOTPConfig())
	return NewOnboardingService(store, otp), store
}

func TestOnboardingHappyPath(t *testing.T) {
	svc, store := newOnboardingFixture()

	session, result, err := svc.Start(testPhone)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.StepVerifyPhone, session.Step)
	require.NotEmpty(t, result.Code, "dev mode returns the code")

	session, err = svc.VerifyPhone(session.SessionID, result.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StepBVN, session.Step)

	session, err = svc.SubmitBVN(session.SessionID, "22212345678")
	require.NoError(t, err)
	assert.Equal(t, models.StepSelfie, session.Step)

	session, err = svc.SubmitSelfie(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepPIN, session.Step)

	session, err = svc.SetPIN(session.SessionID, "4821")
	require.NoError(t, err)
	assert.Equal(t, models.StepBiometric, session.Step)

	session, err = svc.SetBiometric(session.SessionID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StepDone, session.Step)
	assert.True(t, session.BiometricEnabled)
	require.NotNil(t, session.CompletedAt)

	// The raw PIN is never stored, only a checkable hash.
	stored, err := store.GetOnboardingSession(session.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, "4821", stored.PINHash)
	assert.True(t, utils.CheckPIN(stored.PINHash, "4821"))
}

func TestOnboardingRejectsOutOfOrderSteps(t *testing.T) {
	svc, _ := newOnboardingFixture()

	session, _, err := svc.Start(testPhone)
	require.NoError(t, err)

	// The phone is not verified yet, so every later step is rejected.
	var wrongStep *WrongStepError
	_, err = svc.SubmitBVN(session.SessionID, "22212345678")
	require.ErrorAs(t, err, &wrongStep)
	assert.Equal(t, models.StepBVN, wrongStep.Expected)
	assert.Equal(t, models.StepVerifyPhone, wrongStep.Current)

	_, err = svc.SetPIN(session.SessionID, "4821")
	assert.ErrorAs(t, err, &wrongStep)

	_, err = svc.SetBiometric(session.SessionID, true)
	assert.ErrorAs(t, err, &wrongStep)
}

func TestOnboardingPhoneStepUsesOTPRules(t *testing.T) {
	svc, _ := newOnboardingFixture()

	_, _, err := svc.Start("0801")
	assert.ErrorIs(t, err, ErrInvalidPhoneNumber)

	session, result, err := svc.Start(testPhone)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.Code {
		wrong = "000001"
	}
	_, err = svc.VerifyPhone(session.SessionID, wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	// A failed code does not advance the wizard.
	got, err := svc.GetSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepVerifyPhone, got.Step)
}

func TestOnboardingInputValidation(t *testing.T) {
	svc, _ := newOnboardingFixture()

	session, result, err := svc.Start(testPhone)
	require.NoError(t, err)
	_, err = svc.VerifyPhone(session.SessionID, result.Code)
	require.NoError(t, err)

	_, err = svc.SubmitBVN(session.SessionID, "1234")
	assert.ErrorIs(t, err, ErrInvalidBVN)

	_, err = svc.SubmitBVN(session.SessionID, "22212345678")
	require.NoError(t, err)
	_, err = svc.SubmitSelfie(session.SessionID)
	require.NoError(t, err)

	_, err = svc.SetPIN(session.SessionID, "12345")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestOnboardingUnknownSession(t *testing.T) {
	svc, _ := newOnboardingFixture()

	_, err := svc.GetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.VerifyPhone("nope", "123456")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
