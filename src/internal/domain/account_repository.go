package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	AppendMovement(ctx context.Context, username string, movement Movement) error
	ProcessTransfer(ctx context.Context, fromUsername string, toUsername string, amount decimal.Decimal, at time.Time) error
	Remove(ctx context.Context, username string) error
}
