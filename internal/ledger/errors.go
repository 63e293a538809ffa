package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// All engine failures are recoverable, user-facing conditions. Handlers
// translate them with errors.Is / errors.As; anything else is a store error.
var (
	// ErrWalletNotFound covers both a missing wallet id and a wallet owned by
	// a different user, so existence never leaks across accounts.
	ErrWalletNotFound = errors.New("wallet not found")

	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSelfTransfer rejects transfers where source and destination are the
	// same wallet.
	ErrSelfTransfer = errors.New("source and destination wallets cannot be the same")
)

// InsufficientFundsError reports an expense or transfer that would drive the
// wallet balance negative.
type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: current %s, required %s",
		e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

// ValidationError reports a malformed input (non-positive amount, unknown
// transaction type) rejected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
