package advisor

import (
	"sort"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

const monthKeyLayout = "2006-01"

// monthKey names the calendar month containing t in loc. Every per-month
// figure goes through it so stats and trends agree on boundary transactions.
func monthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthKeyLayout)
}

// SpendingTrend buckets expenses by calendar month in loc and compares the two
// most recent months that have expenses. The change is relative to the earlier
// month; an earlier total of zero counts as no change.
func SpendingTrend(txns []model.Transaction, loc *time.Location) Trend {
	totals := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if txn.Type != model.TypeExpense {
			continue
		}
		key := monthKey(txn.Date, loc)
		totals[key] = totals[key].Add(txn.Amount.Abs())
	}

	months := make([]string, 0, len(totals))
	for k := range totals {
		months = append(months, k)
	}
	sort.Strings(months)

	if len(months) < 2 {
		trend := Trend{Direction: TrendInsufficientData}
		if len(months) == 1 {
			trend.CurrentMonth = months[0]
			trend.CurrentTotal = totals[months[0]]
		}
		return trend
	}

	prevKey, curKey := months[len(months)-2], months[len(months)-1]
	trend := Trend{
		PreviousMonth: prevKey,
		CurrentMonth:  curKey,
		PreviousTotal: totals[prevKey],
		CurrentTotal:  totals[curKey],
	}

	if trend.PreviousTotal.IsPositive() {
		trend.ChangePercent = trend.CurrentTotal.Sub(trend.PreviousTotal).
			Div(trend.PreviousTotal).Mul(hundred).InexactFloat64()
	}

	switch {
	case trend.ChangePercent > TrendThreshold:
		trend.Direction = TrendIncreasing
	case trend.ChangePercent < -TrendThreshold:
		trend.Direction = TrendDecreasing
	default:
		trend.Direction = TrendStable
	}

	return trend
}
