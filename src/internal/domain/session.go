package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionStateLoggedOut SessionState = "LOGGED_OUT"
	SessionStateLoggedIn  SessionState = "LOGGED_IN"
)

// Session is the caller's handle on a login. It refers to the account by
// username; once the session ends the handle is rejected by every operation.
type Session struct {
	ID        uuid.UUID
	Username  string
	Owner     string
	StartedAt time.Time
}

type LogoutReason string

const (
	LogoutReasonExplicit LogoutReason = "explicit"
	LogoutReasonExpired  LogoutReason = "expired"
	LogoutReasonClosed   LogoutReason = "closed"
	LogoutReasonReplaced LogoutReason = "replaced"
)

type LogoutEvent struct {
	SessionID uuid.UUID
	Username  string
	Reason    LogoutReason
	At        time.Time
}
