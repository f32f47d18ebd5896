package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingLoan is an approved loan waiting for its deferred grant.
type PendingLoan struct {
	ID          uuid.UUID
	Username    string
	Amount      decimal.Decimal
	RequestedAt time.Time
	DueAt       time.Time
}
