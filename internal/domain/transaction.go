package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the signed semantic of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two supported types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction Model. The (type, amount, wallet) triple determines exactly one
// balance delta, applied at creation and reversed on deletion. Amounts are
// never edited in place.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	Description string          `json:"description,omitempty"`
	WalletID    *uint           `gorm:"index" json:"wallet_id,omitempty"` // Nullable: survives wallet deletion
	OwnerID     uint            `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`

	Category *TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
