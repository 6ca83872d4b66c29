package advisor

import (
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SavingsRate returns (income - expenses) / income * 100, or 0 when there is no income.
func SavingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return income.Sub(expenses).Div(income).Mul(hundred).InexactFloat64()
}

// ComputeStats builds the dashboard snapshot. The balance covers every
// transaction; income and expenses cover the calendar month containing now.
func ComputeStats(txns []model.Transaction, now time.Time) model.Stats {
	var stats model.Stats
	current := monthKey(now, now.Location())

	for _, txn := range txns {
		stats.TotalBalance = stats.TotalBalance.Add(txn.Amount)

		if monthKey(txn.Date, now.Location()) != current {
			continue
		}

		switch txn.Type {
		case model.TypeIncome:
			stats.MonthlyIncome = stats.MonthlyIncome.Add(txn.Amount.Abs())
		case model.TypeExpense:
			stats.MonthlyExpenses = stats.MonthlyExpenses.Add(txn.Amount.Abs())
		}
	}

	stats.SavingsRate = SavingsRate(stats.MonthlyIncome, stats.MonthlyExpenses)
	return stats
}

// SpendingByCategory totals expense magnitudes per category, in order of
// first appearance.
func SpendingByCategory(txns []model.Transaction) []model.SpendingCategory {
	var out []model.SpendingCategory
	index := make(map[string]int)

	for _, txn := range txns {
		if txn.Type != model.TypeExpense {
			continue
		}

		category := txn.Category
		if category == "" {
			category = model.CategoryOther
		}

		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, model.SpendingCategory{Name: category})
		}
		out[i].Value = out[i].Value.Add(txn.Amount.Abs())
	}

	return out
}

// FilterMonth keeps the transactions dated in the calendar month containing now.
func FilterMonth(txns []model.Transaction, now time.Time) []model.Transaction {
	current := monthKey(now, now.Location())
	var out []model.Transaction
	for _, txn := range txns {
		if monthKey(txn.Date, now.Location()) == current {
			out = append(out, txn)
		}
	}
	return out
}
