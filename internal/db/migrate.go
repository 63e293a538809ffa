package db

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"mintro/internal/domain"
)

// Migrate performs automatic migration for the database schema and seeds the
// reference tables.
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := SeedReferenceData(db); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Info("Migration completed.")
}

// AutoMigrate creates tables, foreign keys, constraints, columns and indexes
// for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Currency{},
		&domain.Country{},
		&domain.WalletType{},
		&domain.TransactionCategory{},
		&domain.User{},
		&domain.Wallet{},
		&domain.Transaction{},
		&domain.SavingsGoal{},
	)
}

// SeedReferenceData inserts the read-only lookup rows. Safe to run
// repeatedly: existing rows are left untouched.
func SeedReferenceData(db *gorm.DB) error {
	currencies := []domain.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "Pound Sterling", Symbol: "£"},
		{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	}
	for i := range currencies {
		if err := db.Where(domain.Currency{Code: currencies[i].Code}).
			FirstOrCreate(&currencies[i]).Error; err != nil {
			return err
		}
	}

	currencyByCode := make(map[string]uint, len(currencies))
	for _, cur := range currencies {
		currencyByCode[cur.Code] = cur.ID
	}
	countries := []struct {
		name, code, currency string
	}{
		{"United States", "US", "USD"},
		{"United Kingdom", "GB", "GBP"},
		{"Germany", "DE", "EUR"},
		{"France", "FR", "EUR"},
		{"India", "IN", "INR"},
		{"Japan", "JP", "JPY"},
	}
	for _, c := range countries {
		currencyID := currencyByCode[c.currency]
		country := domain.Country{Name: c.name, Code: c.code, CurrencyID: &currencyID}
		if err := db.Where(domain.Country{Code: c.code}).
			FirstOrCreate(&country).Error; err != nil {
			return err
		}
	}

	walletTypes := []domain.WalletType{
		{Name: "cash", DisplayName: "Cash", Description: "Physical cash on hand", Icon: "banknote", IconColor: "#2e7d32"},
		{Name: "bank", DisplayName: "Bank Account", Description: "Checking or current account", Icon: "building-bank", IconColor: "#1565c0"},
		{Name: "credit_card", DisplayName: "Credit Card", Description: "Credit card account", Icon: "credit-card", IconColor: "#6a1b9a"},
		{Name: "savings", DisplayName: "Savings Account", Description: "Interest-bearing savings account", Icon: "piggy-bank", IconColor: "#ef6c00"},
	}
	for i := range walletTypes {
		if err := db.Where(domain.WalletType{Name: walletTypes[i].Name}).
			FirstOrCreate(&walletTypes[i]).Error; err != nil {
			return err
		}
	}

	categories := []domain.TransactionCategory{
		{Name: "Salary", Type: domain.TypeIncome, Description: "Regular employment income"},
		{Name: "Freelance", Type: domain.TypeIncome, Description: "Contract and freelance income"},
		{Name: "Investments", Type: domain.TypeIncome, Description: "Dividends and investment returns"},
		{Name: "Groceries", Type: domain.TypeExpense, Description: "Food and household supplies"},
		{Name: "Rent", Type: domain.TypeExpense, Description: "Housing rent"},
		{Name: "Utilities", Type: domain.TypeExpense, Description: "Electricity, water, internet"},
		{Name: "Transport", Type: domain.TypeExpense, Description: "Public transport and fuel"},
		{Name: "Entertainment", Type: domain.TypeExpense, Description: "Dining out, streaming, hobbies"},
	}
	for i := range categories {
		if err := db.Where(domain.TransactionCategory{Name: categories[i].Name, Type: categories[i].Type}).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
