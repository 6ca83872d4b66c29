// Package advisor implements the rule-based financial heuristics behind the
// dashboard: savings commentary, the 50/30/20 budget split, goal completion
// projections and month-over-month spending trends.
package advisor

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsStatus classifies a savings rate against the recommended minimum.
type SavingsStatus string

const (
	// StatusBelowRecommended means the user saves less than RecommendedSavingsRate.
	StatusBelowRecommended SavingsStatus = "below_recommended"
	// StatusAboveAverage means the user meets or beats RecommendedSavingsRate.
	StatusAboveAverage SavingsStatus = "above_average"
)

// RecommendedSavingsRate is the savings percentage the advice is measured against.
const RecommendedSavingsRate = 20.0

// Insight is the savings commentary for a stats snapshot.
type Insight struct {
	Status            SavingsStatus   `json:"status"`
	Message           string          `json:"message"`
	TopCategory       string          `json:"top_category,omitempty"`
	Suggestions       []string        `json:"suggestions"`
	TopCategoryAmount decimal.Decimal `json:"top_category_amount"`
	SavingsRate       float64         `json:"savings_rate"`
}

// Allocation is one bucket of a budget split.
type Allocation struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Percentage  int             `json:"percentage"`
}

// Budget is the 50/30/20 split of a monthly income.
type Budget struct {
	Needs         Allocation      `json:"needs"`
	Wants         Allocation      `json:"wants"`
	Savings       Allocation      `json:"savings"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// Projection estimates when a goal will be reached.
type Projection struct {
	EstimatedCompletion time.Time       `json:"estimated_completion"`
	Remaining           decimal.Decimal `json:"remaining"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	MonthsRemaining     float64         `json:"months_remaining"`
	Completed           bool            `json:"completed"`
}

// TrendDirection describes how spending moved between the last two months.
type TrendDirection string

const (
	// TrendIncreasing means spending grew by more than TrendThreshold percent.
	TrendIncreasing TrendDirection = "increasing"
	// TrendDecreasing means spending fell by more than TrendThreshold percent.
	TrendDecreasing TrendDirection = "decreasing"
	// TrendStable means the change stayed within TrendThreshold percent.
	TrendStable TrendDirection = "stable"
	// TrendInsufficientData means fewer than two months had expenses.
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// TrendThreshold is the percentage change that separates stable from moving spending.
const TrendThreshold = 10.0

// Trend compares expense totals of the two most recent months with data.
type Trend struct {
	Direction     TrendDirection  `json:"trend"`
	CurrentMonth  string          `json:"current_month,omitempty"`
	PreviousMonth string          `json:"previous_month,omitempty"`
	CurrentTotal  decimal.Decimal `json:"current_total"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	ChangePercent float64         `json:"change_percent"`
}
