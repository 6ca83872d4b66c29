package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient replays canned results and records every request.
type fakeClient struct {
	errs     []error
	response string
	requests []Request
	mu       sync.Mutex
}

func (f *fakeClient) Complete(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.response, nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func testAdvisor(client Client) *Advisor {
	return NewAdvisor(client, Config{MaxRetries: 2, RetryDelay: time.Millisecond, RateLimit: 1000},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleContext() FinancialContext {
	stats := model.Stats{
		TotalBalance:    decimal.RequireFromString("1500"),
		MonthlyIncome:   decimal.RequireFromString("3000"),
		MonthlyExpenses: decimal.RequireFromString("1000.5"),
		SavingsRate:     66.66,
	}

	var txns []model.Transaction
	for i := 0; i < 12; i++ {
		txns = append(txns, model.Transaction{
			Title:    "Txn " + string(rune('A'+i)),
			Amount:   decimal.NewFromInt(int64(-(i + 1))),
			Category: "Food",
			Type:     model.TypeExpense,
		})
	}

	return FinancialContext{
		Stats:        &stats,
		Transactions: txns,
		Goals: []model.Goal{{
			Title:   "Laptop",
			Target:  decimal.NewFromInt(1200),
			Current: decimal.NewFromInt(300),
		}},
	}
}

func TestBuildContext(t *testing.T) {
	out := BuildContext(sampleContext())

	assert.Contains(t, out, "- Total Balance: $1500.00")
	assert.Contains(t, out, "- Monthly Expenses: $1000.50")
	assert.Contains(t, out, "- Savings Rate: 66.7%")
	assert.Contains(t, out, "Recent Transactions:")
	assert.Contains(t, out, "- Txn A: $1.00 (Food)")
	assert.Contains(t, out, "- Txn J: $10.00 (Food)")
	assert.NotContains(t, out, "Txn K", "only ten transactions are included")
	assert.Contains(t, out, "- Laptop: $300.00 / $1200.00 (25%)")
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Empty(t, BuildContext(FinancialContext{}))

	out := BuildContext(FinancialContext{Transactions: []model.Transaction{{Amount: decimal.NewFromInt(5)}}})
	assert.Contains(t, out, "- N/A: $5.00 (N/A)")
}

func TestAdvisor_FinancialAdvice(t *testing.T) {
	client := &fakeClient{response: "Spend less on food."}
	a := testAdvisor(client)

	advice, err := a.FinancialAdvice(context.Background(), "  How can I save?  ", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, "Spend less on food.", advice)

	require.Equal(t, 1, client.calls())
	req := client.requests[0]
	assert.Equal(t, adviceSystemPrompt, req.System)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Equal(t, 500, req.MaxTokens)
	assert.True(t, strings.HasPrefix(req.Prompt, "User Query: How can I save?\n\nFinancial Context:\n"))
	assert.True(t, strings.HasSuffix(req.Prompt, "Provide helpful financial advice based on this data."))
}

func TestAdvisor_FinancialAdviceRetries(t *testing.T) {
	transient := &common.RetryableError{Err: errors.New("502"), Retryable: true}
	client := &fakeClient{response: "ok", errs: []error{transient}}

	advice, err := testAdvisor(client).FinancialAdvice(context.Background(), "q", FinancialContext{})
	require.NoError(t, err)
	assert.Equal(t, "ok", advice)
	assert.Equal(t, 2, client.calls())
}

func TestAdvisor_FinancialAdviceFailure(t *testing.T) {
	permanent := &common.RetryableError{Err: errors.New("401"), Retryable: false}
	client := &fakeClient{errs: []error{permanent}}

	_, err := testAdvisor(client).FinancialAdvice(context.Background(), "q", FinancialContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrProviderFailure)
	assert.Equal(t, 1, client.calls())

	_, err = testAdvisor(client).FinancialAdvice(context.Background(), "   ", FinancialContext{})
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAdvisor_AnalyzeSpending(t *testing.T) {
	txns := []model.Transaction{
		{Title: "Zomato", Amount: decimal.RequireFromString("-250"), Category: "Food", Type: model.TypeExpense},
		{Title: "Salary", Amount: decimal.RequireFromString("50000"), Category: "Income", Type: model.TypeIncome},
		{Title: "Uber", Amount: decimal.RequireFromString("-120.5"), Category: "Transport", Type: model.TypeExpense},
	}

	client := &fakeClient{response: "Food is your top category."}
	a := testAdvisor(client)

	result := a.AnalyzeSpending(context.Background(), txns)
	assert.Equal(t, "Food is your top category.", result.Analysis)
	require.Len(t, result.Categories, 2)
	assert.Equal(t, "Food", result.Categories[0].Name)

	req := client.requests[0]
	assert.Contains(t, req.Prompt, "- Food: $250.00\n- Transport: $120.50")
	assert.InDelta(t, 0.5, req.Temperature, 1e-9)
	assert.Equal(t, 300, req.MaxTokens)
	assert.Empty(t, req.System)

	// Identical input is served from the cache.
	again := a.AnalyzeSpending(context.Background(), txns)
	assert.Equal(t, result.Analysis, again.Analysis)
	assert.Equal(t, 1, client.calls())
}

func TestAdvisor_AnalyzeSpendingFallbacks(t *testing.T) {
	client := &fakeClient{}
	a := testAdvisor(client)

	empty := a.AnalyzeSpending(context.Background(), nil)
	assert.Equal(t, NoTransactionsAnalysis, empty.Analysis)
	assert.Empty(t, empty.Categories)
	assert.Zero(t, client.calls())

	client.errs = []error{&common.RetryableError{Err: errors.New("400"), Retryable: false}}
	txns := []model.Transaction{{Title: "Uber", Amount: decimal.NewFromInt(-10), Category: "Transport", Type: model.TypeExpense}}

	failed := a.AnalyzeSpending(context.Background(), txns)
	assert.Equal(t, fallbackAnalysis, failed.Analysis)
	require.Len(t, failed.Categories, 1)
	assert.True(t, failed.Categories[0].Value.Equal(decimal.NewFromInt(10)))
}
