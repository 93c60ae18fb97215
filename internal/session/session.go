// Package session keeps the signed-in applicant between requests. The
// Manager is the only place that writes or clears a session: once at login,
// once at logout.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"zakatportal/internal/auth"
	"zakatportal/pkg/types"

	"github.com/sirupsen/logrus"
)

// Store persists a session for the browser that sent r.
type Store interface {
	// Load returns types.ErrSessionNotFound when the browser has no session.
	Load(r *http.Request) (*types.Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *types.Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type Manager struct {
	store     Store
	inspector *auth.Inspector
	maxAge    time.Duration
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewManager(store Store, inspector *auth.Inspector, maxAge time.Duration, logger logrus.FieldLogger) *Manager {
	return &Manager{
		store:     store,
		inspector: inspector,
		maxAge:    maxAge,
		logger:    logger,
		now:       time.Now,
	}
}

// Login persists s. The session never outlives the credential's own expiry
// when the credential carries one.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, s *types.Session) error {
	if !s.Authenticated() {
		return types.ErrNoCredential
	}

	expiresAt := m.now().Add(m.maxAge)
	if exp, ok := m.inspector.Expiry(s.Credential); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}

	stored := *s
	stored.ExpiresAt = expiresAt

	if err := m.store.Save(w, r, &stored); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := m.store.Clear(w, r); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the live session for r. An empty, expired, tampered or
// unverifiable session reads as unauthenticated.
func (m *Manager) Current(r *http.Request) (*types.Session, bool) {
	s, err := m.store.Load(r)
	if err != nil {
		if !errors.Is(err, types.ErrSessionNotFound) {
			m.logger.WithError(err).Warn("failed to load session")
		}
		return nil, false
	}

	if !s.Authenticated() || s.Expired(m.now()) {
		return nil, false
	}

	if m.inspector.Verifies() {
		if err := m.inspector.Verify(r.Context(), s.Credential); err != nil {
			m.logger.WithError(err).WithField("username", s.Username).Warn("session credential rejected")
			return nil, false
		}
	}

	return s, true
}
