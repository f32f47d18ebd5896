package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/clock"
	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/logger"
	"github.com/api-sage/bankist-ledger/src/internal/models"
	"github.com/google/uuid"
)

// SessionManager owns the single active session and its inactivity countdown.
// It is either logged out (active == nil) or logged in to one account.
type SessionManager struct {
	accountRepo  accountReader
	clock        clock.Clock
	timeoutTicks int

	mu        sync.Mutex
	active    *activeSession
	listeners []func(domain.LogoutEvent)
}

type accountReader interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
}

type activeSession struct {
	session   domain.Session
	remaining int
	sorted    bool
}

func NewSessionManager(accountRepo accountReader, clk clock.Clock, timeoutTicks int) *SessionManager {
	return &SessionManager{
		accountRepo:  accountRepo,
		clock:        clk,
		timeoutTicks: timeoutTicks,
	}
}

func (m *SessionManager) Login(ctx context.Context, req models.LoginRequest) (domain.Session, error) {
	logger.Info("session service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("session service login validation failed", err, nil)
		return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}

	username := strings.TrimSpace(req.Username)
	account, err := m.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("session service login unknown username", logger.Fields{
				"username": username,
			})
			return domain.Session{}, domain.ErrInvalidCredentials
		}
		logger.Error("session service login lookup failed", err, logger.Fields{
			"username": username,
		})
		return domain.Session{}, fmt.Errorf("login lookup: %w", err)
	}

	if !account.PinMatches(req.Pin) {
		logger.Info("session service login pin mismatch", logger.Fields{
			"username": username,
		})
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	session := domain.Session{
		ID:        uuid.New(),
		Username:  account.Username,
		Owner:     account.Owner,
		StartedAt: m.clock.Now(),
	}

	m.mu.Lock()
	previous := m.active
	m.active = &activeSession{session: session, remaining: m.timeoutTicks}
	var events []domain.LogoutEvent
	if previous != nil {
		events = append(events, m.logoutEvent(previous.session, domain.LogoutReasonReplaced))
	}
	listeners := m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, events)

	logger.Info("session service login success", logger.Fields{
		"sessionId": session.ID.String(),
		"username":  session.Username,
		"remaining": m.timeoutTicks,
	})

	return session, nil
}

func (m *SessionManager) Logout(_ context.Context, session domain.Session) error {
	if err := m.EndSession(session, domain.LogoutReasonExplicit); err != nil {
		logger.Error("session service logout failed", err, logger.Fields{
			"sessionId": session.ID.String(),
		})
		return err
	}
	return nil
}

func (m *SessionManager) Current() (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return domain.Session{}, false
	}
	return m.active.session, true
}

func (m *SessionManager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return domain.SessionStateLoggedOut
	}
	return domain.SessionStateLoggedIn
}

// Authorize fails with ErrNotLoggedIn unless session is the active one.
func (m *SessionManager) Authorize(session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookupLocked(session); err != nil {
		return err
	}
	return nil
}

// WithSession runs fn while session is held active. Ticks and logouts wait
// until fn returns, so fn must not call back into the manager.
func (m *SessionManager) WithSession(session domain.Session, fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookupLocked(session); err != nil {
		return err
	}
	return fn()
}

// NoteActivity resets the countdown if username owns the active session.
func (m *SessionManager) NoteActivity(username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.session.Username != username {
		return false
	}
	m.active.remaining = m.timeoutTicks
	return true
}

// Tick advances the countdown by one. Reaching zero logs the session out.
func (m *SessionManager) Tick() (remaining int, expired bool) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return 0, false
	}

	m.active.remaining--
	if m.active.remaining > 0 {
		remaining = m.active.remaining
		m.mu.Unlock()
		return remaining, false
	}

	ended := m.active.session
	m.active = nil
	event := m.logoutEvent(ended, domain.LogoutReasonExpired)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	logger.Info("session service session expired", logger.Fields{
		"sessionId": ended.ID.String(),
		"username":  ended.Username,
	})
	notify(listeners, []domain.LogoutEvent{event})

	return 0, true
}

func (m *SessionManager) RemainingTicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return 0
	}
	return m.active.remaining
}

// ToggleSort flips the display order of the active session and returns the new value.
func (m *SessionManager) ToggleSort(session domain.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.lookupLocked(session)
	if err != nil {
		return false, err
	}
	active.sorted = !active.sorted
	return active.sorted, nil
}

func (m *SessionManager) Sorted(session domain.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.lookupLocked(session)
	if err != nil {
		return false, err
	}
	return active.sorted, nil
}

// EndSession logs session out for reason and notifies listeners.
func (m *SessionManager) EndSession(session domain.Session, reason domain.LogoutReason) error {
	m.mu.Lock()
	if _, err := m.lookupLocked(session); err != nil {
		m.mu.Unlock()
		return err
	}
	m.active = nil
	event := m.logoutEvent(session, reason)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	logger.Info("session service session ended", logger.Fields{
		"sessionId": session.ID.String(),
		"username":  session.Username,
		"reason":    string(reason),
	})
	notify(listeners, []domain.LogoutEvent{event})

	return nil
}

// OnLogout registers fn to run after every logout. Listeners run outside the
// manager's lock and may call back into it.
func (m *SessionManager) OnLogout(fn func(domain.LogoutEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Run calls Tick once per value received on ticks until ctx is done or ticks is closed.
func (m *SessionManager) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			m.Tick()
		}
	}
}

func (m *SessionManager) lookupLocked(session domain.Session) (*activeSession, error) {
	if m.active == nil || m.active.session.ID != session.ID {
		return nil, domain.ErrNotLoggedIn
	}
	return m.active, nil
}

func (m *SessionManager) listenersLocked() []func(domain.LogoutEvent) {
	out := make([]func(domain.LogoutEvent), len(m.listeners))
	copy(out, m.listeners)
	return out
}

func (m *SessionManager) logoutEvent(session domain.Session, reason domain.LogoutReason) domain.LogoutEvent {
	return domain.LogoutEvent{
		SessionID: session.ID,
		Username:  session.Username,
		Reason:    reason,
		At:        m.clock.Now(),
	}
}

func notify(listeners []func(domain.LogoutEvent), events []domain.LogoutEvent) {
	for _, event := range events {
		for _, fn := range listeners {
			fn(event)
		}
	}
}
