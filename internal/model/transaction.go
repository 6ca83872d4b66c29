// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome marks money flowing into the user's accounts.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money flowing out of the user's accounts.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TransactionSource records how a transaction entered the system.
type TransactionSource string

// Transaction sources.
const (
	SourceManual TransactionSource = "manual"
	SourceEmail  TransactionSource = "email"
	SourceOFX    TransactionSource = "ofx"
)

// CategoryOther is the fallback category label.
const CategoryOther = "Other"

// Transaction represents a single financial transaction.
// Amount is signed: negative for expenses, positive for income.
type Transaction struct {
	Date        time.Time         `json:"date"`
	CreatedAt   time.Time         `json:"created_at"`
	Amount      decimal.Decimal   `json:"amount"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Bank        string            `json:"bank,omitempty"`
	Type        TransactionType   `json:"type"`
	Description string            `json:"description,omitempty"`
	Source      TransactionSource `json:"source"`
	Hash        string            `json:"-"`
	ID          int64             `json:"id"`
	UserID      int64             `json:"-"`
}

// Normalize forces the sign of Amount to agree with Type.
// Income amounts become non-negative and expense amounts non-positive.
func (t *Transaction) Normalize() {
	switch t.Type {
	case TypeIncome:
		t.Amount = t.Amount.Abs()
	case TypeExpense:
		t.Amount = t.Amount.Abs().Neg()
	}
	if t.Category == "" {
		t.Category = CategoryOther
	}
	if t.Source == "" {
		t.Source = SourceManual
	}
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// GenerateHash creates a hash used for duplicate detection within a user's transactions.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.UTC().Format(time.RFC3339),
		t.Amount.StringFixed(2),
		strings.ToLower(strings.TrimSpace(t.Title)),
		strings.ToLower(t.Bank))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// SpendingCategory is the total spent in one category.
type SpendingCategory struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}
