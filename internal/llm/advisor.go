package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/model"
)

const (
	adviceSystemPrompt = `You are a financial advisor AI assistant. Analyze user's financial data and provide personalized advice.
Be concise, actionable, and friendly. Focus on savings, spending patterns, and goal achievement.`

	adviceTemperature   = 0.7
	adviceMaxTokens     = 500
	analysisTemperature = 0.5
	analysisMaxTokens   = 300

	maxContextTransactions = 10

	// NoTransactionsAnalysis is returned instead of calling the provider when there is nothing to analyze.
	NoTransactionsAnalysis = "No transactions to analyze"
	fallbackAnalysis       = "Unable to analyze spending patterns"
)

// ErrEmptyQuestion is returned when advice is requested without a question.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// FinancialContext is the user data sent along with an advice question.
// Transactions are expected newest first.
type FinancialContext struct {
	Stats        *model.Stats
	Transactions []model.Transaction
	Goals        []model.Goal
}

// Analysis is the result of a spending pattern analysis.
type Analysis struct {
	Analysis   string                   `json:"analysis"`
	Categories []model.SpendingCategory `json:"categories,omitempty"`
}

// Advisor builds prompts from user data and sends them through a Client with
// rate limiting, retries and caching.
type Advisor struct {
	client      Client
	cache       *responseCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   common.RetryOptions
}

// NewAdvisor wraps client using the retry, cache and rate settings in cfg.
func NewAdvisor(client Client, cfg Config, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Advisor{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		retryOpts:   retryOpts,
	}
}

// FinancialAdvice answers question using the user's financial context.
// Provider failures wrap common.ErrProviderFailure.
func (a *Advisor) FinancialAdvice(ctx context.Context, question string, fc FinancialContext) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	prompt := fmt.Sprintf("User Query: %s\n\nFinancial Context:\n%s\n\nProvide helpful financial advice based on this data.",
		question, BuildContext(fc))

	advice, err := a.complete(ctx, Request{
		System:      adviceSystemPrompt,
		Prompt:      prompt,
		Temperature: adviceTemperature,
		MaxTokens:   adviceMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrProviderFailure, err)
	}

	return advice, nil
}

// AnalyzeSpending asks the provider to comment on expense totals per category.
// It never fails because of the provider: errors degrade to a fallback message
// alongside the computed totals.
func (a *Advisor) AnalyzeSpending(ctx context.Context, txns []model.Transaction) Analysis {
	if len(txns) == 0 {
		return Analysis{Analysis: NoTransactionsAnalysis}
	}

	categories := advisor.SpendingByCategory(txns)

	var summary strings.Builder
	for i, c := range categories {
		if i > 0 {
			summary.WriteByte('\n')
		}
		fmt.Fprintf(&summary, "- %s: $%s", c.Name, c.Value.StringFixed(2))
	}

	req := Request{
		Prompt: fmt.Sprintf(`Analyze these spending patterns and provide insights:

%s

Provide:
1. Top spending category
2. Potential savings opportunities
3. One actionable recommendation`, summary.String()),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	}

	key := cacheKey(req)
	if cached, ok := a.cache.get(key); ok {
		a.logger.Debug("cache hit for spending analysis", "categories", len(categories))
		return Analysis{Analysis: cached, Categories: categories}
	}

	text, err := a.complete(ctx, req)
	if err != nil {
		a.logger.Warn("spending analysis failed, using fallback", "error", err)
		return Analysis{Analysis: fallbackAnalysis, Categories: categories}
	}

	a.cache.set(key, text)
	return Analysis{Analysis: text, Categories: categories}
}

func (a *Advisor) complete(ctx context.Context, req Request) (string, error) {
	if err := a.rateLimiter.wait(ctx); err != nil {
		return "", err
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		text, callErr = a.client.Complete(ctx, req)
		return callErr
	}, a.retryOpts)
	if err != nil {
		return "", err
	}

	return text, nil
}

// BuildContext renders the overview, recent transactions and goals that
// accompany an advice question.
func BuildContext(fc FinancialContext) string {
	var parts []string

	if fc.Stats != nil {
		parts = append(parts, fmt.Sprintf(`
Financial Overview:
- Total Balance: $%s
- Monthly Income: $%s
- Monthly Expenses: $%s
- Savings Rate: %.1f%%
`,
			fc.Stats.TotalBalance.StringFixed(2),
			fc.Stats.MonthlyIncome.StringFixed(2),
			fc.Stats.MonthlyExpenses.StringFixed(2),
			fc.Stats.SavingsRate))
	}

	if len(fc.Transactions) > 0 {
		parts = append(parts, "\nRecent Transactions:")
		for i, txn := range fc.Transactions {
			if i == maxContextTransactions {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s: $%s (%s)",
				orNA(txn.Title), txn.Amount.Abs().StringFixed(2), orNA(txn.Category)))
		}
	}

	if len(fc.Goals) > 0 {
		parts = append(parts, "\nFinancial Goals:")
		for _, goal := range fc.Goals {
			parts = append(parts, fmt.Sprintf("- %s: $%s / $%s (%.0f%%)",
				orNA(goal.Title), goal.Current.StringFixed(2), goal.Target.StringFixed(2), goal.Progress()*100))
		}
	}

	return strings.Join(parts, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
