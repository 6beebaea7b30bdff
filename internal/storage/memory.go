package storage

import (
	"sync"
	"time"

	"github.com/nairalink/nairalink-backend/internal/models"
)

// MemoryStore holds all data in memory. Used for tests and local development
// (USE_MEMORY_STORE=true); not for production.
type MemoryStore struct {
	otps     []*models.OTPVerification
	sessions map[string]*models.OnboardingSession

	otpMu     sync.RWMutex
	sessionMu sync.RWMutex

	otpCounter     uint
	sessionCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.OnboardingSession),
	}
}

// OTP operations

func (m *MemoryStore) CreateOTP(otp *models.OTPVerification) (*models.OTPVerification, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	m.otpCounter++
	otp.ID = m.otpCounter
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	otp.UpdatedAt = otp.CreatedAt

	m.otps = append(m.otps, otp)
	return otp, nil
}

func (m *MemoryStore) GetLatestUnverifiedOTP(phone, purpose string) (*models.OTPVerification, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	// Records are appended in creation order, so scan from the tail.
	for i := len(m.otps) - 1; i >= 0; i-- {
		otp := m.otps[i]
		if otp.PhoneNumber == phone && otp.Purpose == purpose && !otp.Verified {
			return otp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetLatestOTP(phone, purpose string) (*models.OTPVerification, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	for i := len(m.otps) - 1; i >= 0; i-- {
		otp := m.otps[i]
		if otp.PhoneNumber == phone && otp.Purpose == purpose {
			return otp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetOTPByMessageSID(sid string) (*models.OTPVerification, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	for i := len(m.otps) - 1; i >= 0; i-- {
		if m.otps[i].MessageSID == sid {
			return m.otps[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateOTP(otp *models.OTPVerification) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for i, existing := range m.otps {
		if existing.ID == otp.ID {
			otp.UpdatedAt = time.Now()
			m.otps[i] = otp
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteExpiredOTPs(cutoff time.Time) (int64, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	var kept []*models.OTPVerification
	var deleted int64
	for _, otp := range m.otps {
		if otp.ExpiresAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, otp)
	}
	m.otps = kept
	return deleted, nil
}

// Onboarding operations

func (m *MemoryStore) CreateOnboardingSession(session *models.OnboardingSession) (*models.OnboardingSession, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	m.sessionCounter++
	session.ID = m.sessionCounter
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt

	m.sessions[session.SessionID] = session
	return session, nil
}

func (m *MemoryStore) GetOnboardingSession(sessionID string) (*models.OnboardingSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}
	return session, nil
}

func (m *MemoryStore) UpdateOnboardingSession(session *models.OnboardingSession) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return ErrNotFound
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.SessionID] = session
	return nil
}
