package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func jonas() Account {
	start := time.Date(2019, 11, 18, 21, 31, 17, 0, time.UTC)
	amounts := []string{"200", "455.23", "-306.5", "25000", "-642.21", "-133.9", "79.97", "1300"}

	acc := Account{
		Owner:        "Jonas Schmedtmann",
		Username:     "js",
		InterestRate: decimal.RequireFromString("1.2"),
	}
	for i, a := range amounts {
		acc.Movements = append(acc.Movements, NewMovement(decimal.RequireFromString(a), start.AddDate(0, 0, i*7)))
	}
	return acc
}

func TestSummarizeSeedAccount(t *testing.T) {
	s := Summarize(jonas())

	cases := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"balance", s.Balance, "25952.59"},
		{"income", s.Income, "27035.20"},
		{"expense", s.Expense, "1082.61"},
		{"interest", s.Interest, "323.46276"},
	}
	for _, c := range cases {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
}

func TestInterestExcludesDepositsBelowOneUnit(t *testing.T) {
	acc := Account{InterestRate: decimal.RequireFromString("1.2")}
	acc.Movements = []Movement{
		NewMovement(decimal.RequireFromString("79.97"), time.Now()),
		NewMovement(decimal.RequireFromString("-5000"), time.Now()),
	}

	if got := Interest(acc); !got.IsZero() {
		t.Fatalf("expected zero interest, got %s", got)
	}

	acc.Movements = append(acc.Movements, NewMovement(decimal.RequireFromString("83.34"), time.Now()))
	if got := Interest(acc); !got.Equal(decimal.RequireFromString("1.00008")) {
		t.Fatalf("expected 1.00008, got %s", got)
	}
}

func TestSummarizeEmptyAccount(t *testing.T) {
	s := Summarize(Account{InterestRate: decimal.NewFromInt(1)})
	if !s.Balance.IsZero() || !s.Income.IsZero() || !s.Expense.IsZero() || !s.Interest.IsZero() {
		t.Fatalf("expected all zero, got %+v", s)
	}
}

func TestHasDepositAboveIsStrict(t *testing.T) {
	acc := Account{Movements: []Movement{NewMovement(decimal.NewFromInt(200), time.Now())}}

	if HasDepositAbove(acc, decimal.NewFromInt(200)) {
		t.Fatal("expected equal movement not to qualify")
	}
	if !HasDepositAbove(acc, decimal.RequireFromString("199.99")) {
		t.Fatal("expected larger movement to qualify")
	}
}

func TestAccountKeepsAmountsAndDatesAligned(t *testing.T) {
	acc := jonas()
	if len(acc.Amounts()) != len(acc.MovementDates()) {
		t.Fatalf("amounts=%d dates=%d", len(acc.Amounts()), len(acc.MovementDates()))
	}

	cp := acc.Clone()
	cp.Movements[0].Amount = decimal.NewFromInt(-1)
	if !acc.Movements[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatal("clone must not share movements")
	}
}

func TestMovementType(t *testing.T) {
	if NewMovement(decimal.NewFromInt(1), time.Now()).Type() != MovementTypeDeposit {
		t.Fatal("expected deposit")
	}
	if NewMovement(decimal.NewFromInt(-1), time.Now()).Type() != MovementTypeWithdrawal {
		t.Fatal("expected withdrawal")
	}
}
