package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// AccountRepository is the in-memory account store. Accounts keep their seed
// order; every mutation happens under one lock so a transfer touches both
// accounts or neither.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []*domain.Account
}

// NewAccountRepository derives every username once, rejects collisions and
// replaces each plain PIN with its hash.
func NewAccountRepository(seeds []domain.AccountSeed, pinCost int) (*AccountRepository, error) {
	accounts := make([]*domain.Account, 0, len(seeds))
	owners := make(map[string]string, len(seeds))

	for _, seed := range seeds {
		owner := strings.TrimSpace(seed.Owner)
		username := domain.DeriveUsername(owner)
		if username == "" {
			return nil, fmt.Errorf("seed account %q: %w", seed.Owner, domain.ErrInvalidOwner)
		}
		if existing, ok := owners[username]; ok {
			return nil, fmt.Errorf("username %q for %q already used by %q: %w", username, owner, existing, domain.ErrDuplicateUsername)
		}
		owners[username] = owner

		pinHash, err := domain.HashPin(seed.Pin, pinCost)
		if err != nil {
			return nil, fmt.Errorf("seed account %q: %w", owner, err)
		}

		movements := make([]domain.Movement, len(seed.Movements))
		copy(movements, seed.Movements)

		accounts = append(accounts, &domain.Account{
			Owner:        owner,
			Username:     username,
			PinHash:      pinHash,
			InterestRate: seed.InterestRate,
			Movements:    movements,
		})
	}

	logger.Info("account repository initialized", logger.Fields{
		"accounts": len(accounts),
	})

	return &AccountRepository{accounts: accounts}, nil
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc := r.findLocked(username)
	if acc == nil {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return acc.Clone(), nil
}

func (r *AccountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc.Clone())
	}

	return out, nil
}

func (r *AccountRepository) AppendMovement(_ context.Context, username string, movement domain.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc := r.findLocked(username)
	if acc == nil {
		logger.Error("account repository append movement account not found", domain.ErrRecordNotFound, logger.Fields{
			"username": username,
		})
		return domain.ErrRecordNotFound
	}

	acc.Movements = append(acc.Movements, movement)

	logger.Info("account repository append movement success", logger.Fields{
		"username":   username,
		"movementId": movement.ID.String(),
		"amount":     movement.Amount.String(),
	})

	return nil
}

// ProcessTransfer debits fromUsername and credits toUsername with the same
// timestamp. The balance is checked again under the lock.
func (r *AccountRepository) ProcessTransfer(_ context.Context, fromUsername string, toUsername string, amount decimal.Decimal, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.findLocked(fromUsername)
	to := r.findLocked(toUsername)
	if from == nil || to == nil {
		return domain.ErrRecordNotFound
	}
	if from == to {
		return domain.ErrSelfTransfer
	}
	if domain.Balance(*from).LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	debit := domain.NewMovement(amount.Neg(), at)
	credit := domain.NewMovement(amount, at)
	from.Movements = append(from.Movements, debit)
	to.Movements = append(to.Movements, credit)

	logger.Info("account repository process transfer success", logger.Fields{
		"from":     fromUsername,
		"to":       toUsername,
		"amount":   amount.String(),
		"debitId":  debit.ID.String(),
		"creditId": credit.ID.String(),
	})

	return nil
}

// Remove deletes the account. A missing account is not an error.
func (r *AccountRepository) Remove(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, acc := range r.accounts {
		if acc.Username == username {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			logger.Info("account repository remove success", logger.Fields{
				"username": username,
			})
			return nil
		}
	}

	logger.Warn("account repository remove account not found", logger.Fields{
		"username": username,
	})
	return nil
}

func (r *AccountRepository) findLocked(username string) *domain.Account {
	for _, acc := range r.accounts {
		if acc.Username == username {
			return acc
		}
	}
	return nil
}

var _ domain.AccountRepository = (*AccountRepository)(nil)
