package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mintro/internal/domain"
)

// Engine is the balance maintenance engine. Every mutation runs as one store
// transaction: the wallet balance write and the ledger row write commit or
// fail as a unit, keeping the invariant
//
//	balance == sum(income.amount) - sum(expense.amount)
//
// true between operations. Balances are adjusted with atomic SQL increments,
// never read-then-write-back, so concurrent writers cannot lose updates.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CreateTransactionInput carries the caller-supplied fields for a new
// transaction. Ownership of the wallet is validated against the user id
// passed to CreateTransaction.
type CreateTransactionInput struct {
	WalletID    uint
	CategoryID  *uint
	Amount      decimal.Decimal
	Date        time.Time
	Type        domain.TransactionType
	Description string
}

// TransferInput describes a wallet-to-wallet transfer for one user.
type TransferInput struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       decimal.Decimal
	Description  string
}

// TransferResult reports the post-transfer balances and the two generated
// leg transactions so callers can display and link them.
type TransferResult struct {
	FromBalance       decimal.Decimal `json:"from_wallet_balance"`
	ToBalance         decimal.Decimal `json:"to_wallet_balance"`
	FromTransactionID uint            `json:"from_transaction_id"`
	ToTransactionID   uint            `json:"to_transaction_id"`
}

// CreateTransaction inserts a transaction row and applies its balance delta
// to the owning wallet in one atomic unit. Expenses require
// wallet.balance >= amount; incomes have no upper bound.
func (e *Engine) CreateTransaction(ctx context.Context, userID uint, in CreateTransactionInput) (*domain.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !in.Type.Valid() {
		return nil, &ValidationError{Field: "type", Reason: "must be 'income' or 'expense'"}
	}

	var created domain.Transaction
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := findOwnedWallet(tx, userID, in.WalletID)
		if err != nil {
			return err
		}
		if in.Type == domain.TypeExpense && wallet.Balance.LessThan(in.Amount) {
			return &InsufficientFundsError{Balance: wallet.Balance, Required: in.Amount}
		}

		walletID := in.WalletID
		created = domain.Transaction{
			CategoryID:  in.CategoryID,
			Amount:      in.Amount,
			Date:        in.Date,
			Type:        in.Type,
			Description: in.Description,
			WalletID:    &walletID,
			OwnerID:     userID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return adjustBalance(tx, wallet, signedDelta(in.Type, in.Amount), in.Type == domain.TypeExpense)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTransaction removes a transaction and applies the exact inverse of
// its original balance delta, atomically. If the wallet reference is gone
// (the wallet was deleted) the row is removed without touching any balance:
// orphaned transactions need no reversal since their wallet no longer
// exists. The reversal itself carries no floor check; it trusts that the
// creation invariant held.
func (e *Engine) DeleteTransaction(ctx context.Context, transactionID uint) (*domain.Transaction, error) {
	var deleted domain.Transaction
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn domain.Transaction
		if err := tx.First(&txn, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.WalletID != nil {
			var wallet domain.Wallet
			err := tx.First(&wallet, *txn.WalletID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Dangling reference: skip the reversal.
			case err != nil:
				return err
			default:
				reversal := signedDelta(txn.Type, txn.Amount).Neg()
				if err := adjustBalance(tx, &wallet, reversal, false); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&domain.Transaction{}, txn.ID).Error; err != nil {
			return err
		}
		deleted = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Transfer moves amount between two wallets of the same user: decrement
// source, increment destination, and record an expense leg on the source and
// an income leg on the destination, all four effects as one atomic unit.
// The legs carry generated descriptions and no category.
func (e *Engine) Transfer(ctx context.Context, userID uint, in TransferInput) (*TransferResult, error) {
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	var result TransferResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fromWallet, err := findOwnedWallet(tx, userID, in.FromWalletID)
		if err != nil {
			return err
		}
		toWallet, err := findOwnedWallet(tx, userID, in.ToWalletID)
		if err != nil {
			return err
		}
		if fromWallet.ID == toWallet.ID {
			return ErrSelfTransfer
		}
		if fromWallet.Balance.LessThan(in.Amount) {
			return &InsufficientFundsError{Balance: fromWallet.Balance, Required: in.Amount}
		}

		if err := adjustBalance(tx, fromWallet, in.Amount.Neg(), true); err != nil {
			return err
		}
		if err := adjustBalance(tx, toWallet, in.Amount, false); err != nil {
			return err
		}

		today := dateOnly(time.Now())
		fromLeg := domain.Transaction{
			Amount:      in.Amount,
			Date:        today,
			Type:        domain.TypeExpense,
			Description: legDescription("Transfer to", toWallet.Name, in.Description),
			WalletID:    &fromWallet.ID,
			OwnerID:     userID,
		}
		toLeg := domain.Transaction{
			Amount:      in.Amount,
			Date:        today,
			Type:        domain.TypeIncome,
			Description: legDescription("Transfer from", fromWallet.Name, in.Description),
			WalletID:    &toWallet.ID,
			OwnerID:     userID,
		}
		if err := tx.Create(&fromLeg).Error; err != nil {
			return err
		}
		if err := tx.Create(&toLeg).Error; err != nil {
			return err
		}

		// Re-read the wallets so the reported balances reflect the committed
		// increments rather than locally computed values.
		if err := tx.First(fromWallet, fromWallet.ID).Error; err != nil {
			return err
		}
		if err := tx.First(toWallet, toWallet.ID).Error; err != nil {
			return err
		}
		result = TransferResult{
			FromBalance:       fromWallet.Balance,
			ToBalance:         toWallet.Balance,
			FromTransactionID: fromLeg.ID,
			ToTransactionID:   toLeg.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// findOwnedWallet loads a wallet scoped to its owner. A wallet belonging to
// another user is indistinguishable from a missing one.
func findOwnedWallet(tx *gorm.DB, userID, walletID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := tx.Where("id = ? AND owner_id = ?", walletID, userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// adjustBalance applies delta as an atomic SQL increment. When floor is set
// the update is guarded by balance >= -delta, so a concurrent spend cannot
// push the balance negative between our read and our write.
func adjustBalance(tx *gorm.DB, wallet *domain.Wallet, delta decimal.Decimal, floor bool) error {
	q := tx.Model(&domain.Wallet{}).Where("id = ?", wallet.ID)
	if floor {
		q = q.Where("balance >= ?", delta.Neg())
	}
	res := q.Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if floor && res.RowsAffected == 0 {
		return &InsufficientFundsError{Balance: wallet.Balance, Required: delta.Neg()}
	}
	return nil
}

// signedDelta maps a transaction onto the balance change it causes.
func signedDelta(t domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == domain.TypeExpense {
		return amount.Neg()
	}
	return amount
}

func legDescription(prefix, walletName, userDescription string) string {
	d := prefix + " " + walletName
	if userDescription != "" {
		d += " - " + userDescription
	}
	return d
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
