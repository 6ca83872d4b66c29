package advisor

import (
	"github.com/shopspring/decimal"
)

// Budget split ratios.
const (
	NeedsPercent   = 50
	WantsPercent   = 30
	SavingsPercent = 20
)

const (
	needsDescription   = "Essentials: rent, groceries, utilities, insurance and minimum debt payments"
	wantsDescription   = "Lifestyle: dining out, entertainment, shopping and hobbies"
	savingsDescription = "Future: emergency fund, investments and extra debt payments"
)

// SuggestBudget splits a monthly income 50/30/20 across needs, wants and savings.
func SuggestBudget(monthlyIncome decimal.Decimal) (Budget, error) {
	if !monthlyIncome.IsPositive() {
		return Budget{}, &InputError{
			Field: "monthly_income",
			Value: monthlyIncome.String(),
			Err:   ErrInvalidIncome,
		}
	}

	return Budget{
		MonthlyIncome: monthlyIncome,
		Needs:         allocate(monthlyIncome, NeedsPercent, needsDescription),
		Wants:         allocate(monthlyIncome, WantsPercent, wantsDescription),
		Savings:       allocate(monthlyIncome, SavingsPercent, savingsDescription),
	}, nil
}

func allocate(income decimal.Decimal, percent int, description string) Allocation {
	return Allocation{
		Amount:      income.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100)),
		Percentage:  percent,
		Description: description,
	}
}
