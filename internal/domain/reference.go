package domain

// Read-only lookup tables. Seeded by the migrate command, never written by
// request handlers.

// Currency Model
type Currency struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Code   string `gorm:"size:3;uniqueIndex" json:"code"`
	Name   string `gorm:"size:50;not null" json:"name"`
	Symbol string `gorm:"size:5;not null" json:"symbol"`
}

// Country Model
type Country struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Code       string `gorm:"size:2;uniqueIndex" json:"code"`
	CurrencyID *uint  `json:"currency_id,omitempty"`

	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}

// WalletType Model
type WalletType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex" json:"name"`
	Description string `json:"description,omitempty"`
	DisplayName string `gorm:"size:100" json:"display_name,omitempty"`
	Icon        string `gorm:"size:50" json:"icon,omitempty"`
	IconColor   string `gorm:"size:7" json:"icon_color,omitempty"`
}

// TransactionCategory Model
type TransactionCategory struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"` // income or expense
	Description string          `json:"description,omitempty"`
}
