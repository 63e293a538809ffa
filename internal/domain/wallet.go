package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet Model. Balance is a derived value: it always equals the signed sum
// of all existing transactions referencing this wallet. Only the ledger
// engine may mutate it.
type Wallet struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	TypeID    *uint           `json:"type_id,omitempty"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Color     string          `gorm:"size:7;default:#000000" json:"color"`
	OwnerID   uint            `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Type *WalletType `gorm:"foreignKey:TypeID" json:"type,omitempty"`

	// Deleting a wallet nulls the reference on its transactions, it does not
	// remove them. The ledger engine tolerates the orphans on later deletes.
	Transactions []Transaction `gorm:"foreignKey:WalletID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}
