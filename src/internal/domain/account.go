package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"
)

// Movement is one signed entry in an account's history. Each movement carries
// its own timestamp, so amounts and dates can never drift out of step.
type Movement struct {
	ID     uuid.UUID
	Amount decimal.Decimal
	Date   time.Time
}

func NewMovement(amount decimal.Decimal, at time.Time) Movement {
	return Movement{ID: uuid.New(), Amount: amount, Date: at}
}

func (m Movement) Type() MovementType {
	if m.Amount.IsPositive() {
		return MovementTypeDeposit
	}
	return MovementTypeWithdrawal
}

type Account struct {
	Owner        string
	Username     string
	PinHash      string
	InterestRate decimal.Decimal
	Movements    []Movement
}

// FirstName is the first whitespace-separated token of the owner name.
func (a Account) FirstName() string {
	fields := strings.Fields(a.Owner)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (a Account) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.Movements))
	for i, m := range a.Movements {
		out[i] = m.Amount
	}
	return out
}

func (a Account) MovementDates() []time.Time {
	out := make([]time.Time, len(a.Movements))
	for i, m := range a.Movements {
		out[i] = m.Date
	}
	return out
}

// Clone returns a copy that shares no mutable state with a.
func (a Account) Clone() Account {
	cp := a
	cp.Movements = make([]Movement, len(a.Movements))
	copy(cp.Movements, a.Movements)
	return cp
}

// AccountSeed describes an account before usernames are derived and the PIN is hashed.
type AccountSeed struct {
	Owner        string
	Pin          int
	InterestRate decimal.Decimal
	Movements    []Movement
}

// MovementView is a read-only row for the rendering layer. Index is the
// movement's chronological position, independent of the display order.
type MovementView struct {
	Index  int
	ID     uuid.UUID
	Amount decimal.Decimal
	Date   time.Time
	Type   MovementType
}
