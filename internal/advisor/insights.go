package advisor

import (
	"fmt"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

var categoryTips = map[string]string{
	"Food":          "Cooking at home a few more nights a week is the quickest way to trim food spending.",
	"Shopping":      "Try a 48 hour wait before non-essential purchases and unsubscribe from retailer emails.",
	"Transport":     "Pooling rides or using public transport for regular trips can lower transport costs.",
	"Utilities":     "Compare broadband and mobile plans; unused capacity is a common utilities leak.",
	"Entertainment": "List your subscriptions and cancel the ones you have not used this month.",
	"Healthcare":    "Check whether your insurance covers recurring healthcare costs before paying out of pocket.",
	"Education":     "Look for scholarships, employer reimbursement or tax relief on education costs.",
}

// SavingsInsight comments on the savings rate of stats and names the largest
// expense category in txns. Only expense transactions are considered; on an
// exact tie the category that appears first in txns wins.
func SavingsInsight(stats model.Stats, txns []model.Transaction) Insight {
	insight := Insight{
		SavingsRate: stats.SavingsRate,
		Suggestions: []string{},
	}

	if stats.SavingsRate < RecommendedSavingsRate {
		insight.Status = StatusBelowRecommended
		insight.Message = fmt.Sprintf("Your savings rate is %.1f%%, below the recommended %.0f%%.",
			stats.SavingsRate, RecommendedSavingsRate)
		insight.Suggestions = append(insight.Suggestions,
			fmt.Sprintf("Set up an automatic transfer of %.0f%% of each paycheck into savings before spending.",
				RecommendedSavingsRate))
	} else {
		insight.Status = StatusAboveAverage
		insight.Message = fmt.Sprintf("Great job! Your savings rate of %.1f%% is above average.", stats.SavingsRate)
	}

	top, amount, ok := topCategory(txns)
	if !ok {
		return insight
	}

	insight.TopCategory = top
	insight.TopCategoryAmount = amount
	insight.Suggestions = append(insight.Suggestions,
		fmt.Sprintf("Review your %s spending: it is your largest expense at $%s.", top, amount.StringFixed(2)))
	if tip, ok := categoryTips[top]; ok {
		insight.Suggestions = append(insight.Suggestions, tip)
	}

	return insight
}

func topCategory(txns []model.Transaction) (string, decimal.Decimal, bool) {
	var (
		best   string
		amount decimal.Decimal
		found  bool
	)
	for _, c := range SpendingByCategory(txns) {
		if !found || c.Value.GreaterThan(amount) {
			best, amount, found = c.Name, c.Value, true
		}
	}
	return best, amount, found
}
