package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsType classifies a savings goal.
type SavingsType string

const (
	SavingsIndividual SavingsType = "individual"
	SavingsLinked     SavingsType = "linked"
)

// SavingsGoal Model. CurrentAmount is client-maintained; even for linked
// goals it carries no enforced relationship to the linked wallet's balance.
type SavingsGoal struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Description    string          `json:"description,omitempty"`
	GoalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"goal_amount"`
	CurrentAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_amount"`
	TargetDate     *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
	SavingsType    SavingsType     `gorm:"size:20;not null;default:individual" json:"savings_type"`
	LinkedWalletID *uint           `json:"linked_wallet_id,omitempty"`
	OwnerID        uint            `gorm:"index;not null" json:"owner_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	LinkedWallet *Wallet `gorm:"foreignKey:LinkedWalletID" json:"-"`
}
