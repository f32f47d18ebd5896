package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate only checks the amount; recipient checks need the store.
func (r TransferRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return domain.ErrNonPositiveAmount
	}
	return nil
}

type LoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r LoanRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrLoanRejected)
	}
	return nil
}

type CloseAccountRequest struct {
	Username   string `json:"username"`
	PinConfirm string `json:"pinConfirm"`
}

func (r CloseAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(r.PinConfirm) == "" {
		errs = append(errs, "pinConfirm is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrIdentityMismatch, errors.New(strings.Join(errs, "; ")))
	}

	return nil
}
