package advisor

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// daysPerMonth is the month length used for completion dates.
const daysPerMonth = 30

// PredictGoalCompletion projects when a goal reaches its target at a fixed
// monthly contribution. Months are not rounded to whole numbers.
func PredictGoalCompletion(target, current, monthly decimal.Decimal, now time.Time) (Projection, error) {
	if !monthly.IsPositive() {
		return Projection{}, &InputError{
			Field: "monthly_contribution",
			Value: monthly.String(),
			Err:   ErrInvalidContribution,
		}
	}

	remaining := target.Sub(current)
	if !remaining.IsPositive() {
		return Projection{
			Remaining:           decimal.Zero,
			MonthlyContribution: monthly,
			MonthsRemaining:     0,
			EstimatedCompletion: now,
			Completed:           true,
		}, nil
	}

	months := remaining.Div(monthly).InexactFloat64()

	return Projection{
		Remaining:           remaining,
		MonthlyContribution: monthly,
		MonthsRemaining:     months,
		EstimatedCompletion: addDays(now, months*daysPerMonth),
	}, nil
}

// maxProjectionDays keeps completion dates inside the range time.Time can
// format and marshal (year 9999).
const maxProjectionDays = 2_900_000

// addDays adds a fractional number of days to t. Whole days go through
// AddDate so horizons longer than a time.Duration can hold stay in the future.
func addDays(t time.Time, days float64) time.Time {
	days = math.Min(days, maxProjectionDays)
	whole, frac := math.Modf(days)
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour)))
}
