package service_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/models"
)

type SessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (domain.Session, error)
	Logout(ctx context.Context, session domain.Session) error
	Current() (domain.Session, bool)
	State() domain.SessionState
	Authorize(session domain.Session) error
	WithSession(session domain.Session, fn func() error) error
	NoteActivity(username string) bool
	Tick() (remaining int, expired bool)
	RemainingTicks() int
	ToggleSort(session domain.Session) (bool, error)
	Sorted(session domain.Session) (bool, error)
	EndSession(session domain.Session, reason domain.LogoutReason) error
	OnLogout(fn func(domain.LogoutEvent))
	Run(ctx context.Context, ticks <-chan time.Time)
}
