package advisor

import (
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(date time.Time, amount, category string) model.Transaction {
	return model.Transaction{Date: date, Amount: d(amount).Neg(), Type: model.TypeExpense, Category: category}
}

func income(date time.Time, amount string) model.Transaction {
	return model.Transaction{Date: date, Amount: d(amount), Type: model.TypeIncome, Category: "Income"}
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 12, 0, 0, 0, time.UTC)
}

func TestSuggestBudget(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		needs   string
		wants   string
		savings string
	}{
		{name: "round income", income: "1000", needs: "500", wants: "300", savings: "200"},
		{name: "cents", income: "4321.50", needs: "2160.75", wants: "1296.45", savings: "864.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := SuggestBudget(d(tt.income))
			require.NoError(t, err)

			assert.True(t, budget.Needs.Amount.Equal(d(tt.needs)), "needs %s", budget.Needs.Amount)
			assert.True(t, budget.Wants.Amount.Equal(d(tt.wants)), "wants %s", budget.Wants.Amount)
			assert.True(t, budget.Savings.Amount.Equal(d(tt.savings)), "savings %s", budget.Savings.Amount)
			assert.Equal(t, 50, budget.Needs.Percentage)
			assert.Equal(t, 30, budget.Wants.Percentage)
			assert.Equal(t, 20, budget.Savings.Percentage)

			total := budget.Needs.Amount.Add(budget.Wants.Amount).Add(budget.Savings.Amount)
			assert.True(t, total.Equal(d(tt.income)))
		})
	}
}

func TestSuggestBudget_RejectsNonPositiveIncome(t *testing.T) {
	for _, in := range []string{"0", "-250"} {
		_, err := SuggestBudget(d(in))
		require.Error(t, err)
		assert.True(t, IsInputError(err))
		assert.ErrorIs(t, err, ErrInvalidIncome)
	}
}

func TestPredictGoalCompletion(t *testing.T) {
	now := day(2026, time.January, 1)

	t.Run("in progress", func(t *testing.T) {
		p, err := PredictGoalCompletion(d("1200"), d("200"), d("100"), now)
		require.NoError(t, err)

		assert.False(t, p.Completed)
		assert.True(t, p.Remaining.Equal(d("1000")))
		assert.InDelta(t, 10.0, p.MonthsRemaining, 1e-9)
		assert.True(t, now.Add(300*24*time.Hour).Equal(p.EstimatedCompletion))
	})

	t.Run("fractional months", func(t *testing.T) {
		p, err := PredictGoalCompletion(d("1000"), d("0"), d("400"), now)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, p.MonthsRemaining, 1e-9)
		assert.True(t, now.Add(75*24*time.Hour).Equal(p.EstimatedCompletion))
	})

	t.Run("centuries away", func(t *testing.T) {
		p, err := PredictGoalCompletion(d("1000000"), d("0"), d("100"), now)
		require.NoError(t, err)

		assert.InDelta(t, 10000.0, p.MonthsRemaining, 1e-9)
		assert.True(t, p.EstimatedCompletion.After(now))
		assert.True(t, now.AddDate(0, 0, 300000).Equal(p.EstimatedCompletion))
	})

	t.Run("beyond year 9999", func(t *testing.T) {
		p, err := PredictGoalCompletion(d("1000000000"), d("0"), d("1"), now)
		require.NoError(t, err)

		assert.True(t, p.EstimatedCompletion.After(now))
		assert.Less(t, p.EstimatedCompletion.Year(), 10000)
	})

	t.Run("already reached", func(t *testing.T) {
		p, err := PredictGoalCompletion(d("100"), d("150"), d("10"), now)
		require.NoError(t, err)

		assert.True(t, p.Completed)
		assert.Zero(t, p.MonthsRemaining)
		assert.True(t, p.Remaining.IsZero())
		assert.Equal(t, now, p.EstimatedCompletion)
	})

	t.Run("no contribution", func(t *testing.T) {
		_, err := PredictGoalCompletion(d("1000"), d("0"), d("0"), now)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidContribution)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "monthly_contribution", inputErr.Field)
	})
}

func TestSavingsInsight(t *testing.T) {
	now := day(2026, time.March, 10)

	tests := []struct {
		name       string
		rate       float64
		txns       []model.Transaction
		wantStatus SavingsStatus
		wantTop    string
		wantAmount string
		minTips    int
	}{
		{
			name:       "low savings with food on top",
			rate:       5,
			txns:       []model.Transaction{expense(now, "40", "Shopping"), expense(now, "120", "Food"), income(now, "900")},
			wantStatus: StatusBelowRecommended,
			wantTop:    "Food",
			wantAmount: "120",
			minTips:    3,
		},
		{
			name:       "exactly recommended",
			rate:       20,
			txns:       []model.Transaction{expense(now, "10", "Other")},
			wantStatus: StatusAboveAverage,
			wantTop:    "Other",
			wantAmount: "10",
			minTips:    1,
		},
		{
			name:       "tie goes to first seen",
			rate:       35,
			txns:       []model.Transaction{expense(now, "50", "Transport"), expense(now, "25", "Food"), expense(now, "25", "Food")},
			wantStatus: StatusAboveAverage,
			wantTop:    "Transport",
			wantAmount: "50",
			minTips:    2,
		},
		{
			name:       "no expenses",
			rate:       80,
			txns:       []model.Transaction{income(now, "500")},
			wantStatus: StatusAboveAverage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight := SavingsInsight(model.Stats{SavingsRate: tt.rate}, tt.txns)

			assert.Equal(t, tt.wantStatus, insight.Status)
			assert.Equal(t, tt.wantTop, insight.TopCategory)
			assert.InDelta(t, tt.rate, insight.SavingsRate, 1e-9)
			assert.NotEmpty(t, insight.Message)
			assert.GreaterOrEqual(t, len(insight.Suggestions), tt.minTips)
			if tt.wantAmount != "" {
				assert.True(t, insight.TopCategoryAmount.Equal(d(tt.wantAmount)))
			}
		})
	}
}

func TestSpendingTrend(t *testing.T) {
	feb := day(2026, time.February, 14)
	mar := day(2026, time.March, 3)

	tests := []struct {
		name      string
		txns      []model.Transaction
		want      TrendDirection
		wantDelta float64
	}{
		{
			name: "increasing",
			txns: []model.Transaction{expense(feb, "100", "Food"), expense(mar, "100", "Food"), expense(mar, "50", "Food")},
			want: TrendIncreasing, wantDelta: 50,
		},
		{
			name: "stable within threshold",
			txns: []model.Transaction{expense(feb, "100", "Food"), expense(mar, "105", "Food")},
			want: TrendStable, wantDelta: 5,
		},
		{
			name: "decreasing",
			txns: []model.Transaction{expense(mar, "50", "Food"), expense(feb, "100", "Food")},
			want: TrendDecreasing, wantDelta: -50,
		},
		{
			name: "income ignored",
			txns: []model.Transaction{expense(feb, "100", "Food"), income(mar, "5000"), expense(mar, "100", "Food")},
			want: TrendStable,
		},
		{
			name: "zero previous month",
			txns: []model.Transaction{expense(feb, "0", "Food"), expense(mar, "100", "Food")},
			want: TrendStable, wantDelta: 0,
		},
		{
			name: "single month",
			txns: []model.Transaction{expense(mar, "100", "Food")},
			want: TrendInsufficientData,
		},
		{
			name: "empty",
			want: TrendInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := SpendingTrend(tt.txns, time.UTC)
			assert.Equal(t, tt.want, trend.Direction)
			assert.InDelta(t, tt.wantDelta, trend.ChangePercent, 1e-9)
		})
	}
}

func TestSpendingTrend_UsesTwoMostRecentMonths(t *testing.T) {
	txns := []model.Transaction{
		expense(day(2025, time.December, 1), "999", "Food"),
		expense(day(2026, time.January, 1), "200", "Food"),
		expense(day(2026, time.February, 1), "100", "Food"),
	}

	trend := SpendingTrend(txns, time.UTC)
	assert.Equal(t, "2026-01", trend.PreviousMonth)
	assert.Equal(t, "2026-02", trend.CurrentMonth)
	assert.Equal(t, TrendDecreasing, trend.Direction)
}

func TestMonthBoundaryAgreesAcrossStatsAndTrend(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, ist)

	// 1 March 00:30 in IST is still 28 February in UTC.
	boundary := expense(time.Date(2026, time.February, 28, 19, 0, 0, 0, time.UTC), "300", "Food")
	txns := []model.Transaction{expense(day(2026, time.February, 10), "100", "Food"), boundary}

	stats := ComputeStats(txns, now)
	assert.True(t, stats.MonthlyExpenses.Equal(d("300")))
	assert.Len(t, FilterMonth(txns, now), 1)

	trend := SpendingTrend(txns, now.Location())
	assert.Equal(t, "2026-02", trend.PreviousMonth)
	assert.Equal(t, "2026-03", trend.CurrentMonth)
	assert.True(t, trend.CurrentTotal.Equal(d("300")))
}

func TestComputeStats(t *testing.T) {
	now := day(2026, time.March, 15)
	txns := []model.Transaction{
		income(day(2026, time.March, 1), "3000"),
		expense(day(2026, time.March, 5), "1000", "Food"),
		expense(day(2026, time.February, 20), "500", "Food"),
	}

	stats := ComputeStats(txns, now)

	assert.True(t, stats.TotalBalance.Equal(d("1500")), "balance %s", stats.TotalBalance)
	assert.True(t, stats.MonthlyIncome.Equal(d("3000")))
	assert.True(t, stats.MonthlyExpenses.Equal(d("1000")))
	assert.InDelta(t, 66.6667, stats.SavingsRate, 1e-3)
}

func TestComputeStats_NoIncome(t *testing.T) {
	now := day(2026, time.March, 15)
	stats := ComputeStats([]model.Transaction{expense(now, "20", "Food")}, now)

	assert.Zero(t, stats.SavingsRate)
	assert.True(t, stats.TotalBalance.Equal(d("-20")))
}

func TestSpendingByCategory(t *testing.T) {
	now := day(2026, time.March, 15)
	txns := []model.Transaction{
		expense(now, "10", "Transport"),
		income(now, "100"),
		expense(now, "5", ""),
		expense(now, "15", "Transport"),
		expense(now, "7", "Food"),
	}

	got := SpendingByCategory(txns)
	require.Len(t, got, 3)
	assert.Equal(t, "Transport", got[0].Name)
	assert.True(t, got[0].Value.Equal(d("25")))
	assert.Equal(t, model.CategoryOther, got[1].Name)
	assert.Equal(t, "Food", got[2].Name)
}

func TestFilterMonth(t *testing.T) {
	now := day(2026, time.March, 15)
	txns := []model.Transaction{
		expense(day(2026, time.March, 1), "1", "Food"),
		expense(day(2026, time.February, 28), "1", "Food"),
		expense(day(2025, time.March, 1), "1", "Food"),
	}
	assert.Len(t, FilterMonth(txns, now), 1)
}
