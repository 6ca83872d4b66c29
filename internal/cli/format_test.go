package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Contains(t, FormatMoney(decimal.RequireFromString("-12.5")), "-$12.50")
	assert.Contains(t, FormatMoney(decimal.RequireFromString("3000")), "$3000.00")
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
}

func TestRenderTransaction(t *testing.T) {
	out := RenderTransaction(&model.Transaction{
		Title:    "Swiggy",
		Amount:   decimal.RequireFromString("-250"),
		Type:     model.TypeExpense,
		Category: "Food",
		Bank:     "HDFC",
		Date:     time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
	})

	for _, want := range []string{"Swiggy", "-$250.00", "expense", "Food", "HDFC", "2026-03-04 09:30"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderBudget(t *testing.T) {
	b, err := advisor.SuggestBudget(decimal.NewFromInt(1000))
	require.NoError(t, err)

	out := RenderBudget(b)
	for _, want := range []string{"Needs (50%)", "$500.00", "Wants (30%)", "$300.00", "Savings (20%)", "$200.00"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderProjection(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p, err := advisor.PredictGoalCompletion(decimal.NewFromInt(1200), decimal.NewFromInt(200), decimal.NewFromInt(100), now)
	require.NoError(t, err)
	out := RenderProjection(p)
	assert.Contains(t, out, "10.0")
	assert.Contains(t, out, "October 28, 2026")

	done, err := advisor.PredictGoalCompletion(decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(5), now)
	require.NoError(t, err)
	assert.Contains(t, RenderProjection(done), "Goal already reached")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, -1, "Reading alerts...")

	p.Update(0, 3)
	p.Update(2, 3)
	p.Update(1, 3)
	p.Update(3, 3)
	p.Finish()

	assert.Equal(t, 3, p.done)
	assert.Contains(t, buf.String(), "Reading alerts...")
}
