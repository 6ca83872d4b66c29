package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		txn          Transaction
		wantAmount   string
		wantCategory string
	}{
		{
			name:         "income forced non-negative",
			txn:          Transaction{Type: TypeIncome, Amount: decimal.RequireFromString("-50.25")},
			wantAmount:   "50.25",
			wantCategory: CategoryOther,
		},
		{
			name:         "expense forced non-positive",
			txn:          Transaction{Type: TypeExpense, Amount: decimal.RequireFromString("19.99"), Category: "Food"},
			wantAmount:   "-19.99",
			wantCategory: "Food",
		},
		{
			name:         "expense already negative is unchanged",
			txn:          Transaction{Type: TypeExpense, Amount: decimal.RequireFromString("-5")},
			wantAmount:   "-5",
			wantCategory: CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.txn.Normalize()
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(tt.txn.Amount), "amount = %s", tt.txn.Amount)
			assert.Equal(t, tt.wantCategory, tt.txn.Category)
			assert.Equal(t, SourceManual, tt.txn.Source)
		})
	}
}

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		Date:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("-1234.56"),
		Title:  "AMAZON",
		Bank:   "HDFC",
	}

	same := base
	same.Title = "  amazon "
	assert.Equal(t, base.GenerateHash(), same.GenerateHash(), "title case and padding are ignored")

	differentAmount := base
	differentAmount.Amount = decimal.RequireFromString("-1234.57")
	assert.NotEqual(t, base.GenerateHash(), differentAmount.GenerateHash())

	differentDate := base
	differentDate.Date = base.Date.Add(time.Minute)
	assert.NotEqual(t, base.GenerateHash(), differentDate.GenerateHash())
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TypeIncome.Valid())
	assert.True(t, TypeExpense.Valid())
	assert.False(t, TransactionType("transfer").Valid())
}

func TestGoal_Progress(t *testing.T) {
	g := Goal{Target: decimal.NewFromInt(200), Current: decimal.NewFromInt(50)}
	assert.InDelta(t, 0.25, g.Progress(), 1e-9)

	g.Current = decimal.NewFromInt(300)
	assert.InDelta(t, 1.5, g.Progress(), 1e-9)

	g.Target = decimal.Zero
	assert.Zero(t, g.Progress())
}

func TestGoalUpdate_Apply(t *testing.T) {
	g := Goal{Title: "Car", Target: decimal.NewFromInt(1000), Color: DefaultGoalColor}
	title := "New car"
	current := decimal.NewFromInt(250)

	GoalUpdate{Title: &title, Current: &current}.Apply(&g)

	assert.Equal(t, "New car", g.Title)
	assert.True(t, g.Current.Equal(current))
	assert.True(t, g.Target.Equal(decimal.NewFromInt(1000)), "target left unchanged")
	assert.Equal(t, DefaultGoalColor, g.Color)
}
