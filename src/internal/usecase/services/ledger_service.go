package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/clock"
	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/logger"
	"github.com/api-sage/bankist-ledger/src/internal/models"
	"github.com/api-sage/bankist-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService validates and applies transfers, loans and closures for the
// active session. Mutations are serialized by mu.
type LedgerService struct {
	accountRepo     domain.AccountRepository
	sessionService  service_interfaces.SessionService
	scheduler       clock.Scheduler
	loanDelay       time.Duration
	collateralRatio decimal.Decimal

	mu    sync.Mutex
	loans map[uuid.UUID]*scheduledLoan
}

type scheduledLoan struct {
	loan  domain.PendingLoan
	timer clock.Timer
}

func NewLedgerService(
	accountRepo domain.AccountRepository,
	sessionService service_interfaces.SessionService,
	scheduler clock.Scheduler,
	loanDelay time.Duration,
	collateralRatio decimal.Decimal,
) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		sessionService:  sessionService,
		scheduler:       scheduler,
		loanDelay:       loanDelay,
		collateralRatio: collateralRatio,
		loans:           make(map[uuid.UUID]*scheduledLoan),
	}
}

func (s *LedgerService) Transfer(ctx context.Context, session domain.Session, req models.TransferRequest) error {
	logger.Info("ledger service transfer request", logger.Fields{
		"sessionId": session.ID.String(),
		"payload":   logger.SanitizePayload(req),
	})

	if err := s.sessionService.Authorize(session); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		logger.Error("ledger service transfer validation failed", err, nil)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	to := strings.TrimSpace(req.To)
	recipient, err := s.accountRepo.GetByUsername(ctx, to)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("ledger service transfer unknown recipient", logger.Fields{
				"to": to,
			})
			return domain.ErrUnknownRecipient
		}
		logger.Error("ledger service transfer recipient lookup failed", err, logger.Fields{
			"to": to,
		})
		return fmt.Errorf("transfer recipient lookup: %w", err)
	}
	if recipient.Username == session.Username {
		return domain.ErrSelfTransfer
	}

	sender, err := s.sessionAccount(ctx, session)
	if err != nil {
		return err
	}
	if domain.Balance(sender).LessThan(req.Amount) {
		logger.Info("ledger service transfer insufficient funds", logger.Fields{
			"from":    sender.Username,
			"amount":  req.Amount.String(),
			"balance": domain.Balance(sender).String(),
		})
		return domain.ErrInsufficientFunds
	}

	err = s.sessionService.WithSession(session, func() error {
		return s.accountRepo.ProcessTransfer(ctx, sender.Username, recipient.Username, req.Amount, s.scheduler.Now())
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return err
		}
		logger.Error("ledger service transfer processing failed", err, logger.Fields{
			"from": sender.Username,
			"to":   recipient.Username,
		})
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrSelfTransfer) {
			return err
		}
		return fmt.Errorf("process transfer: %w", err)
	}

	s.sessionService.NoteActivity(session.Username)

	logger.Info("ledger service transfer success", logger.Fields{
		"from":   sender.Username,
		"to":     recipient.Username,
		"amount": req.Amount.String(),
	})

	return nil
}

// RequestLoan approves a loan when some movement is strictly greater than
// amount times the collateral ratio. The grant is applied after loanDelay.
func (s *LedgerService) RequestLoan(ctx context.Context, session domain.Session, req models.LoanRequest) (domain.PendingLoan, error) {
	logger.Info("ledger service loan request", logger.Fields{
		"sessionId": session.ID.String(),
		"payload":   logger.SanitizePayload(req),
	})

	if err := s.sessionService.Authorize(session); err != nil {
		return domain.PendingLoan{}, err
	}
	if err := req.Validate(); err != nil {
		logger.Error("ledger service loan validation failed", err, nil)
		return domain.PendingLoan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.sessionAccount(ctx, session)
	if err != nil {
		return domain.PendingLoan{}, err
	}

	threshold := req.Amount.Mul(s.collateralRatio)
	if !domain.HasDepositAbove(account, threshold) {
		logger.Info("ledger service loan rejected", logger.Fields{
			"username":  account.Username,
			"amount":    req.Amount.String(),
			"threshold": threshold.String(),
		})
		return domain.PendingLoan{}, domain.ErrLoanRejected
	}

	now := s.scheduler.Now()
	loan := domain.PendingLoan{
		ID:          uuid.New(),
		Username:    account.Username,
		Amount:      req.Amount,
		RequestedAt: now,
		DueAt:       now.Add(s.loanDelay),
	}
	loanID := loan.ID
	err = s.sessionService.WithSession(session, func() error {
		s.loans[loanID] = &scheduledLoan{
			loan:  loan,
			timer: s.scheduler.AfterFunc(s.loanDelay, func() { s.grantLoan(loanID) }),
		}
		return nil
	})
	if err != nil {
		return domain.PendingLoan{}, err
	}

	logger.Info("ledger service loan approved", logger.Fields{
		"loanId":   loan.ID.String(),
		"username": loan.Username,
		"amount":   loan.Amount.String(),
		"dueAt":    loan.DueAt.Format(time.RFC3339Nano),
	})

	return loan, nil
}

// grantLoan applies an approved loan to its account whether or not that
// account's session is still active. A closed account drops the grant.
func (s *LedgerService) grantLoan(loanID uuid.UUID) {
	s.mu.Lock()
	scheduled, ok := s.loans[loanID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.loans, loanID)

	loan := scheduled.loan
	err := s.accountRepo.AppendMovement(context.Background(), loan.Username, domain.NewMovement(loan.Amount, s.scheduler.Now()))
	s.mu.Unlock()

	if err != nil {
		logger.Error("ledger service loan grant failed", err, logger.Fields{
			"loanId":   loan.ID.String(),
			"username": loan.Username,
		})
		return
	}

	active := s.sessionService.NoteActivity(loan.Username)

	logger.Info("ledger service loan granted", logger.Fields{
		"loanId":        loan.ID.String(),
		"username":      loan.Username,
		"amount":        loan.Amount.String(),
		"sessionActive": active,
	})
}

func (s *LedgerService) PendingLoans(_ context.Context, session domain.Session) ([]domain.PendingLoan, error) {
	if err := s.sessionService.Authorize(session); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PendingLoan, 0, len(s.loans))
	for _, scheduled := range s.loans {
		if scheduled.loan.Username == session.Username {
			out = append(out, scheduled.loan)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].DueAt.Before(out[j].DueAt)
	})

	return out, nil
}

func (s *LedgerService) CancelLoan(_ context.Context, session domain.Session, loanID uuid.UUID) error {
	if err := s.sessionService.Authorize(session); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scheduled, ok := s.loans[loanID]
	if !ok || scheduled.loan.Username != session.Username {
		return domain.ErrLoanNotFound
	}
	scheduled.timer.Stop()
	delete(s.loans, loanID)

	logger.Info("ledger service loan cancelled", logger.Fields{
		"loanId":   loanID.String(),
		"username": session.Username,
	})

	return nil
}

// CloseAccount removes the active account after the caller re-enters its
// username and PIN, then ends the session. There is no undo.
func (s *LedgerService) CloseAccount(ctx context.Context, session domain.Session, req models.CloseAccountRequest) error {
	logger.Info("ledger service close account request", logger.Fields{
		"sessionId": session.ID.String(),
		"payload":   logger.SanitizePayload(req),
	})

	if err := s.sessionService.Authorize(session); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		logger.Error("ledger service close account validation failed", err, nil)
		return err
	}

	s.mu.Lock()
	account, err := s.sessionAccount(ctx, session)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if strings.TrimSpace(req.Username) != account.Username || !account.PinMatches(req.PinConfirm) {
		s.mu.Unlock()
		logger.Info("ledger service close account identity mismatch", logger.Fields{
			"username": account.Username,
		})
		return domain.ErrIdentityMismatch
	}

	err = s.sessionService.WithSession(session, func() error {
		return s.accountRepo.Remove(ctx, account.Username)
	})
	if errors.Is(err, domain.ErrNotLoggedIn) {
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.mu.Unlock()
		logger.Error("ledger service close account remove failed", err, logger.Fields{
			"username": account.Username,
		})
		return fmt.Errorf("remove account: %w", err)
	}
	cancelled := s.cancelLoansLocked(account.Username)
	s.mu.Unlock()

	if err := s.sessionService.EndSession(session, domain.LogoutReasonClosed); err != nil && !errors.Is(err, domain.ErrNotLoggedIn) {
		return err
	}

	logger.Info("ledger service close account success", logger.Fields{
		"username":       account.Username,
		"cancelledLoans": cancelled,
	})

	return nil
}

// ToggleSort flips between chronological and ascending-by-amount order and
// returns the chronological indices of the movements in the new order.
func (s *LedgerService) ToggleSort(ctx context.Context, session domain.Session) ([]int, error) {
	if err := s.sessionService.Authorize(session); err != nil {
		return nil, err
	}

	account, err := s.sessionAccount(ctx, session)
	if err != nil {
		return nil, err
	}
	sorted, err := s.sessionService.ToggleSort(session)
	if err != nil {
		return nil, err
	}

	return movementOrder(account.Movements, sorted), nil
}

// Movements returns the active account's movements in the session's display order.
func (s *LedgerService) Movements(ctx context.Context, session domain.Session) ([]domain.MovementView, error) {
	sorted, err := s.sessionService.Sorted(session)
	if err != nil {
		return nil, err
	}

	account, err := s.sessionAccount(ctx, session)
	if err != nil {
		return nil, err
	}

	order := movementOrder(account.Movements, sorted)
	out := make([]domain.MovementView, 0, len(order))
	for _, i := range order {
		m := account.Movements[i]
		out = append(out, domain.MovementView{
			Index:  i,
			ID:     m.ID,
			Amount: m.Amount,
			Date:   m.Date,
			Type:   m.Type(),
		})
	}

	return out, nil
}

func (s *LedgerService) Summary(ctx context.Context, session domain.Session) (domain.Summary, error) {
	if err := s.sessionService.Authorize(session); err != nil {
		return domain.Summary{}, err
	}

	account, err := s.sessionAccount(ctx, session)
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summarize(account), nil
}

func (s *LedgerService) sessionAccount(ctx context.Context, session domain.Session) (domain.Account, error) {
	account, err := s.accountRepo.GetByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotLoggedIn
		}
		logger.Error("ledger service session account lookup failed", err, logger.Fields{
			"username": session.Username,
		})
		return domain.Account{}, fmt.Errorf("session account lookup: %w", err)
	}
	return account, nil
}

func (s *LedgerService) cancelLoansLocked(username string) int {
	cancelled := 0
	for id, scheduled := range s.loans {
		if scheduled.loan.Username != username {
			continue
		}
		scheduled.timer.Stop()
		delete(s.loans, id)
		cancelled++
	}
	return cancelled
}

func movementOrder(movements []domain.Movement, sorted bool) []int {
	order := make([]int, len(movements))
	for i := range order {
		order[i] = i
	}
	if sorted {
		sort.SliceStable(order, func(a, b int) bool {
			return movements[order[a]].Amount.LessThan(movements[order[b]].Amount)
		})
	}
	return order
}

var _ service_interfaces.LedgerService = (*LedgerService)(nil)
var _ service_interfaces.SessionService = (*SessionManager)(nil)
