package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered account holder.
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	ID           int64     `json:"id"`
}

// DefaultCurrency is used for accounts created without a currency.
const DefaultCurrency = "USD"

// Account is a bank or card account the user tracks manually.
type Account struct {
	CreatedAt   time.Time       `json:"created_at"`
	Balance     decimal.Decimal `json:"balance"`
	Name        string          `json:"name"`
	Bank        string          `json:"bank,omitempty"`
	AccountType string          `json:"account_type,omitempty"`
	Currency    string          `json:"currency"`
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
}

// MailConnection stores the inbox a user has linked for transaction alerts.
// Secret holds the encrypted IMAP app password.
type MailConnection struct {
	CreatedAt         time.Time  `json:"created_at"`
	LastSynced        *time.Time `json:"last_synced,omitempty"`
	Email             string     `json:"email"`
	Secret            string     `json:"-"`
	Server            string     `json:"server"`
	TransactionsCount int        `json:"transactions_count"`
	UserID            int64      `json:"-"`
}

// Stats is the dashboard snapshot computed from a user's transactions.
type Stats struct {
	TotalBalance    decimal.Decimal `json:"total_balance"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	SavingsRate     float64         `json:"savings_rate"`
}
