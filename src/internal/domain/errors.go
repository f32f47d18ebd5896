package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrDuplicateUsername = errors.New("Duplicate username")
var ErrInvalidOwner = errors.New("Owner name is required")
var ErrInvalidPin = errors.New("PIN must be a number between 0 and 9999")

var ErrInvalidCredentials = errors.New("Invalid credentials")
var ErrNotLoggedIn = errors.New("Not logged in")

var ErrNonPositiveAmount = errors.New("Amount must be greater than zero")
var ErrUnknownRecipient = errors.New("Unknown recipient")
var ErrSelfTransfer = errors.New("Cannot transfer to own account")
var ErrInsufficientFunds = errors.New("Insufficient funds")

var ErrLoanRejected = errors.New("Loan rejected")
var ErrLoanNotFound = errors.New("Loan not found")

var ErrIdentityMismatch = errors.New("Identity mismatch")

type ErrorKind string

const (
	ErrorKindNone     ErrorKind = ""
	ErrorKindAuth     ErrorKind = "auth"
	ErrorKindSession  ErrorKind = "session"
	ErrorKindTransfer ErrorKind = "transfer"
	ErrorKindLoan     ErrorKind = "loan"
	ErrorKindClose    ErrorKind = "close"
	ErrorKindStore    ErrorKind = "store"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidCredentials, ErrorKindAuth},
	{ErrNotLoggedIn, ErrorKindSession},
	{ErrNonPositiveAmount, ErrorKindTransfer},
	{ErrUnknownRecipient, ErrorKindTransfer},
	{ErrSelfTransfer, ErrorKindTransfer},
	{ErrInsufficientFunds, ErrorKindTransfer},
	{ErrLoanRejected, ErrorKindLoan},
	{ErrLoanNotFound, ErrorKindLoan},
	{ErrIdentityMismatch, ErrorKindClose},
	{ErrRecordNotFound, ErrorKindStore},
	{ErrDuplicateUsername, ErrorKindStore},
	{ErrInvalidOwner, ErrorKindStore},
	{ErrInvalidPin, ErrorKindStore},
}

// KindOf returns the error family of err, or ErrorKindNone for errors that
// did not originate in the ledger.
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ErrorKindNone
}
