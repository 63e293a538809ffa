package domain

import "time"

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"` // Unique login identity
	PasswordHash string     `gorm:"size:255;not null" json:"-"`                 // Never serialized
	Mobile       string     `gorm:"size:20" json:"mobile,omitempty"`
	DOB          *time.Time `gorm:"type:date" json:"dob,omitempty"`
	CountryID    *uint      `json:"country_id,omitempty"`
	CurrencyID   *uint      `json:"currency_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Country  *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`

	Wallets      []Wallet      `gorm:"foreignKey:OwnerID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:OwnerID" json:"-"`
	SavingsGoals []SavingsGoal `gorm:"foreignKey:OwnerID" json:"-"`
}
