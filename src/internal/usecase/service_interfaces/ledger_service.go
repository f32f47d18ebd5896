package service_interfaces

import (
	"context"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/models"
	"github.com/google/uuid"
)

type LedgerService interface {
	Transfer(ctx context.Context, session domain.Session, req models.TransferRequest) error
	RequestLoan(ctx context.Context, session domain.Session, req models.LoanRequest) (domain.PendingLoan, error)
	PendingLoans(ctx context.Context, session domain.Session) ([]domain.PendingLoan, error)
	CancelLoan(ctx context.Context, session domain.Session, loanID uuid.UUID) error
	CloseAccount(ctx context.Context, session domain.Session, req models.CloseAccountRequest) error
	ToggleSort(ctx context.Context, session domain.Session) ([]int, error)
	Movements(ctx context.Context, session domain.Session) ([]domain.MovementView, error)
	Summary(ctx context.Context, session domain.Session) (domain.Summary, error)
}
