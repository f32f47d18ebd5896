package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Summary holds the figures derived from an account's movements. None of them
// is stored; every call recomputes from the history.
type Summary struct {
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Interest decimal.Decimal
}

func Summarize(acc Account) Summary {
	return Summary{
		Balance:  Balance(acc),
		Income:   Income(acc),
		Expense:  Expense(acc),
		Interest: Interest(acc),
	}
}

func Balance(acc Account) decimal.Decimal {
	total := decimal.Zero
	for _, m := range acc.Movements {
		total = total.Add(m.Amount)
	}
	return total
}

func Income(acc Account) decimal.Decimal {
	total := decimal.Zero
	for _, m := range acc.Movements {
		if m.Amount.IsPositive() {
			total = total.Add(m.Amount)
		}
	}
	return total
}

func Expense(acc Account) decimal.Decimal {
	total := decimal.Zero
	for _, m := range acc.Movements {
		if m.Amount.IsNegative() {
			total = total.Add(m.Amount)
		}
	}
	return total.Abs()
}

// Interest sums the per-deposit interest, skipping deposits whose interest is
// below one unit. The threshold drops them entirely; nothing is rounded.
func Interest(acc Account) decimal.Decimal {
	one := decimal.NewFromInt(1)
	total := decimal.Zero
	for _, m := range acc.Movements {
		if !m.Amount.IsPositive() {
			continue
		}
		earned := m.Amount.Mul(acc.InterestRate).Div(hundred)
		if earned.GreaterThanOrEqual(one) {
			total = total.Add(earned)
		}
	}
	return total
}

// HasDepositAbove reports whether any movement is strictly greater than threshold.
func HasDepositAbove(acc Account, threshold decimal.Decimal) bool {
	for _, m := range acc.Movements {
		if m.Amount.GreaterThan(threshold) {
			return true
		}
	}
	return false
}
