package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals and a sign-aware color.
func FormatMoney(amount decimal.Decimal) string {
	text := "$" + amount.Abs().StringFixed(2)
	switch {
	case amount.IsNegative():
		return ErrorStyle.Render("-" + text)
	case amount.IsPositive():
		return SuccessStyle.Render(text)
	default:
		return text
	}
}

func field(label, value string) string {
	return LabelStyle.Render(label) + value
}

// RenderTransaction shows an extracted or stored transaction.
func RenderTransaction(txn *model.Transaction) string {
	lines := []string{
		field("Title", BoldStyle.Render(txn.Title)),
		field("Amount", FormatMoney(txn.Amount)),
		field("Type", string(txn.Type)),
		field("Category", txn.Category),
	}
	if txn.Bank != "" {
		lines = append(lines, field("Bank", txn.Bank))
	}
	lines = append(lines, field("Date", txn.Date.Format("2006-01-02 15:04")))
	return RenderBox("Transaction", strings.Join(lines, "\n"))
}

// RenderBudget shows a 50/30/20 split.
func RenderBudget(b advisor.Budget) string {
	row := func(name string, a advisor.Allocation) string {
		return field(fmt.Sprintf("%s (%d%%)", name, a.Percentage), FormatMoney(a.Amount)) +
			"\n" + SubtleStyle.Render("  "+a.Description)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		field("Income", FormatMoney(b.MonthlyIncome)),
		"",
		row("Needs", b.Needs),
		row("Wants", b.Wants),
		row("Savings", b.Savings),
	)
	return RenderBox(ChartIcon+" Suggested budget", content)
}

// RenderProjection shows when a goal will be reached.
func RenderProjection(p advisor.Projection) string {
	if p.Completed {
		return FormatSuccess("Goal already reached!")
	}

	content := strings.Join([]string{
		field("Remaining", FormatMoney(p.Remaining)),
		field("Monthly", FormatMoney(p.MonthlyContribution)),
		field("Months", fmt.Sprintf("%.1f", p.MonthsRemaining)),
		field("ETA", p.EstimatedCompletion.Format("January 2, 2006")),
	}, "\n")
	return RenderBox("Goal projection", content)
}
