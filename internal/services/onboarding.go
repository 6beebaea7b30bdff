package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/nairalink/nairalink-backend/internal/models"
	"github.com/nairalink/nairalink-backend/internal/storage"
	"github.com/nairalink/nairalink-backend/internal/utils"
)

var bvnPattern = regexp.MustCompile(`^\d{11}$`)

// OnboardingService walks a new customer through registration as an explicit
// ordered step sequence: verify_phone → bvn → selfie → pin → biometric.
// Submissions for any other step than the session's current one are rejected,
// so the wizard can never be skipped ahead or replayed backwards.
type OnboardingService struct {
	store storage.Store
	otp   *OTPService

	now func() time.Time
}

// NewOnboardingService creates the registration wizard service.
func NewOnboardingService(store storage.Store, otp *OTPService) *OnboardingService {
	return &OnboardingService{
		store: store,
		otp:   otp,
		now:   time.Now,
	}
}

// Start creates a session for the phone number and issues a registration OTP.
// The issue result is passed through so dev mode surfaces the code.
func (s *OnboardingService) Start(phone string) (*models.OnboardingSession, *IssueResult, error) {
	result, err := s.otp.Issue(phone, models.OTPPurposeRegistration)
	if err != nil {
		return nil, nil, err
	}

	session := &models.OnboardingSession{
		SessionID:   uuid.NewString(),
		PhoneNumber: phone,
		Step:        models.StepVerifyPhone,
	}
	if _, err := s.store.CreateOnboardingSession(session); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return session, result, nil
}

// VerifyPhone completes the verify_phone step with the submitted OTP code.
func (s *OnboardingService) VerifyPhone(sessionID, code string) (*models.OnboardingSession, error) {
	session, err := s.getAtStep(sessionID, models.StepVerifyPhone)
	if err != nil {
		return nil, err
	}

	if err := s.otp.Verify(session.PhoneNumber, code, models.OTPPurposeRegistration); err != nil {
		return nil, err
	}

	return s.advance(session)
}

// SubmitBVN completes the bvn step.
func (s *OnboardingService) SubmitBVN(sessionID, bvn string) (*models.OnboardingSession, error) {
	session, err := s.getAtStep(sessionID, models.StepBVN)
	if err != nil {
		return nil, err
	}
	if !bvnPattern.MatchString(bvn) {
		return nil, ErrInvalidBVN
	}

	session.BVN = bvn
	return s.advance(session)
}

// SubmitSelfie completes the selfie step. Liveness checking happens on the
// client; the backend only records that a capture was taken.
func (s *OnboardingService) SubmitSelfie(sessionID string) (*models.OnboardingSession, error) {
	session, err := s.getAtStep(sessionID, models.StepSelfie)
	if err != nil {
		return nil, err
	}

	session.SelfieTaken = true
	return s.advance(session)
}

// SetPIN completes the pin step. Only the bcrypt hash is stored.
func (s *OnboardingService) SetPIN(sessionID, pin string) (*models.OnboardingSession, error) {
	session, err := s.getAtStep(sessionID, models.StepPIN)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPIN(pin)
	if err != nil {
		return nil, ErrInvalidPIN
	}

	session.PINHash = hash
	return s.advance(session)
}

// SetBiometric completes the biometric step and finishes the wizard.
func (s *OnboardingService) SetBiometric(sessionID string, enabled bool) (*models.OnboardingSession, error) {
	session, err := s.getAtStep(sessionID, models.StepBiometric)
	if err != nil {
		return nil, err
	}

	session.BiometricEnabled = enabled
	now := s.now()
	session.CompletedAt = &now
	return s.advance(session)
}

// GetSession returns a session by ID.
func (s *OnboardingService) GetSession(sessionID string) (*models.OnboardingSession, error) {
	session, err := s.store.GetOnboardingSession(sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return session, nil
}

func (s *OnboardingService) getAtStep(sessionID, step string) (*models.OnboardingSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != step {
		return nil, &WrongStepError{Expected: step, Current: session.Step}
	}
	return session, nil
}

func (s *OnboardingService) advance(session *models.OnboardingSession) (*models.OnboardingSession, error) {
	session.Step = models.NextStep(session.Step)
	if err := s.store.UpdateOnboardingSession(session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return session, nil
}
