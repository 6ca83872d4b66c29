package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/cli"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget <monthly-income>",
		Short: "Suggest a 50/30/20 budget",
		Long: `Split a monthly income into needs (50%), wants (30%) and savings (20%).

Example:
  financeai budget 4200`,
		Args: cobra.ExactArgs(1),
		RunE: runBudget,
	}
}

func runBudget(cmd *cobra.Command, args []string) error {
	income, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid income %q: %w", args[0], err)
	}

	budget, err := advisor.SuggestBudget(income)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBudget(budget))
	return err
}

func goalETACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal-eta",
		Short: "Estimate when a savings goal will be reached",
		Long: `Project the completion date of a savings goal at a fixed monthly contribution.

Example:
  financeai goal-eta --target 1200 --current 200 --monthly 100`,
		Args: cobra.NoArgs,
		RunE: runGoalETA,
	}

	cmd.Flags().String("target", "", "Target amount (required)")
	cmd.Flags().String("current", "0", "Amount saved so far")
	cmd.Flags().String("monthly", "", "Monthly contribution (required)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("monthly")

	return cmd
}

func runGoalETA(cmd *cobra.Command, _ []string) error {
	amounts := make(map[string]decimal.Decimal, 3)
	for _, name := range []string{"target", "current", "monthly"} {
		raw, _ := cmd.Flags().GetString(name)
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: %w", name, raw, err)
		}
		amounts[name] = value
	}

	projection, err := advisor.PredictGoalCompletion(amounts["target"], amounts["current"], amounts["monthly"], time.Now())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderProjection(projection))
	return err
}
