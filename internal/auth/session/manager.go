// Package session owns the single active session of a dashboard client.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"estate_dashboard_backend/internal/auth/sessionstore"
	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/apperr"
	"estate_dashboard_backend/platform/logger"

	"golang.org/x/sync/semaphore"
)

// Manager tracks the current principal in memory and mirrors it to a
// durable single-key store. One Manager exists per client instance.
type Manager struct {
	directory Directory
	store     sessionstore.Store
	eventBus  events.Bus
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	// pending admits one Authenticate at a time; overlapping calls get Busy.
	pending *semaphore.Weighted

	mu      sync.RWMutex
	current *rbac.Principal
}

func New(directory Directory, store sessionstore.Store, eventBus events.Bus, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		directory: directory,
		store:     store,
		eventBus:  eventBus,
		log:       log,
		now:       time.Now,
		pending:   semaphore.NewWeighted(1),
	}
}

// SetMetrics attaches Prometheus collectors.
func (m *Manager) SetMetrics(mt *metrics.Metrics) {
	m.metrics = mt
}

// SetClock overrides the time source used for event timestamps.
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Authenticate verifies credentials with the directory, persists the session
// record and makes the principal current. A second call while one is in
// flight fails with Busy. Persistence failure leaves the previous state intact.
func (m *Manager) Authenticate(ctx context.Context, identifier, secret string) (rbac.Principal, error) {
	if !m.pending.TryAcquire(1) {
		m.metrics.Login("busy")
		m.log.AuthEvent("login", identifier, false, "busy")
		return rbac.Principal{}, apperr.Busy("authentication already in progress").WithOp("session.Authenticate")
	}
	defer m.pending.Release(1)

	principal, err := m.directory.Verify(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			m.metrics.Login("invalid_credentials")
			m.log.AuthEvent("login", identifier, false, "invalid_credentials")
			return rbac.Principal{}, apperr.InvalidCredentials()
		}
		m.metrics.Login("error")
		m.log.AuthEvent("login", identifier, false, err.Error())
		return rbac.Principal{}, apperr.Wrap(apperr.KindInternal, "identity directory unavailable", err).WithOp("session.Authenticate")
	}
	if !principal.Role.Valid() {
		m.metrics.Login("invalid_credentials")
		m.log.AuthEvent("login", identifier, false, "unknown_role")
		return rbac.Principal{}, apperr.InvalidCredentials()
	}

	data, err := encodeRecord(principal)
	if err != nil {
		return rbac.Principal{}, apperr.Wrap(apperr.KindInternal, "encode session record", err)
	}

	m.mu.Lock()
	if err := m.store.Set(ctx, data); err != nil {
		m.mu.Unlock()
		m.metrics.Login("error")
		m.log.Error("failed to persist session record", "error", err)
		return rbac.Principal{}, apperr.Wrap(apperr.KindInternal, "persist session", err).WithOp("session.Authenticate")
	}
	p := principal
	m.current = &p
	m.mu.Unlock()

	m.metrics.Login("success")
	m.log.AuthEvent("login", identifier, true, "")
	if m.eventBus != nil {
		m.eventBus.Publish(ctx, events.SessionStarted{
			BaseEvent:   events.NewBaseEvent(m.now()),
			PrincipalID: principal.ID,
			Role:        string(principal.Role),
		})
	}
	return principal, nil
}

// Login is Authenticate under its collaborator-facing name.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (rbac.Principal, error) {
	return m.Authenticate(ctx, identifier, secret)
}

// RestoreSession reads the durable record once and, if valid, makes it the
// current session. It never consults the identity directory. A corrupt
// record is cleared and reported as no session.
func (m *Manager) RestoreSession(ctx context.Context) (rbac.Principal, bool, error) {
	data, ok, err := m.store.Get(ctx)
	if err != nil {
		return rbac.Principal{}, false, apperr.Wrap(apperr.KindInternal, "read session", err).WithOp("session.RestoreSession")
	}
	if !ok {
		return rbac.Principal{}, false, nil
	}

	principal, err := decodeRecord(data)
	if err != nil {
		m.log.Warn("discarding unreadable session record", "error", err)
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.log.Error("failed to clear session record", "error", clearErr)
		}
		return rbac.Principal{}, false, nil
	}

	m.mu.Lock()
	p := principal
	m.current = &p
	m.mu.Unlock()

	m.log.Info("session restored", "principal_id", principal.ID.String(), "role", string(principal.Role))
	return principal, true, nil
}

// Rehydrate fills the profile fields the session record does not carry
// (e-mail, credential ref) from the directory. The restored id, role and
// display name are kept. It reports false when nobody is signed in or the
// directory no longer knows the principal under the same role.
func (m *Manager) Rehydrate(ctx context.Context) bool {
	cur, ok := m.CurrentPrincipal()
	if !ok || m.directory == nil {
		return false
	}
	p, found := m.directory.Lookup(ctx, cur.ID)
	if !found || p.Role != cur.Role {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID != cur.ID {
		return false
	}
	m.current.Email = p.Email
	m.current.CredentialRef = p.CredentialRef
	return true
}

// EndSession clears the in-memory principal and the durable record.
// Calling it without an active session is a no-op.
func (m *Manager) EndSession(ctx context.Context) error {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	err := m.store.Clear(ctx)
	m.mu.Unlock()

	if err != nil {
		m.log.Error("failed to clear session record", "error", err)
		return apperr.Wrap(apperr.KindInternal, "clear session", err).WithOp("session.EndSession")
	}
	if prev != nil {
		m.log.Info("session ended", "principal_id", prev.ID.String())
		if m.eventBus != nil {
			m.eventBus.Publish(ctx, events.SessionEnded{
				BaseEvent:   events.NewBaseEvent(m.now()),
				PrincipalID: prev.ID,
			})
		}
	}
	return nil
}

// Logout is EndSession under its collaborator-facing name.
func (m *Manager) Logout(ctx context.Context) error {
	return m.EndSession(ctx)
}

// CurrentPrincipal returns the active principal, if any.
func (m *Manager) CurrentPrincipal() (rbac.Principal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return rbac.Principal{}, false
	}
	return *m.current, true
}

// CurrentCapabilities returns the active principal's capabilities, or an
// empty set when nobody is signed in.
func (m *Manager) CurrentCapabilities() rbac.CapabilitySet {
	p, ok := m.CurrentPrincipal()
	if !ok {
		return rbac.NewCapabilitySet()
	}
	return p.Capabilities()
}
