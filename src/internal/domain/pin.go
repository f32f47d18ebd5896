package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const maxPin = 9999

// HashPin stores a PIN by its canonical decimal form, so "0042" and "42"
// authenticate the same account.
func HashPin(pin int, cost int) (string, error) {
	if pin < 0 || pin > maxPin {
		return "", ErrInvalidPin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strconv.Itoa(pin)), cost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}

	return string(hashed), nil
}

// PinMatches compares the numeric value of raw with the account PIN.
func (a Account) PinMatches(raw string) bool {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !value.IsInteger() {
		return false
	}
	// IntPart wraps outside int64, so bound the decimal first.
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(maxPin)) {
		return false
	}
	pin := value.IntPart()

	return bcrypt.CompareHashAndPassword([]byte(a.PinHash), []byte(strconv.FormatInt(pin, 10))) == nil
}
