package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/export"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to an Excel workbook",
		Long: `Write a user's transactions to an .xlsx workbook with a Transactions sheet
and a Summary sheet of category totals.

Example:
  financeai export --user me@example.com --out ~/Documents/2026.xlsx --from 2026-01-01`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("user", "u", "", "Email of the account to export (required)")
	cmd.Flags().StringP("out", "o", "", "Output file (default: transactions-YYYY-MM-DD.xlsx)")
	cmd.Flags().String("from", "", "Only include transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Only include transactions before this date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("user")
	outPath, _ := cmd.Flags().GetString("out")

	filter, err := dateFilter(cmd)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	user, err := lookupUser(ctx, store, email)
	if err != nil {
		return err
	}

	txns, err := store.ListTransactions(ctx, user.ID, filter)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	file, err := os.Create(outPath) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	if err := export.WriteTransactionsXLSX(file, txns); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	slog.Debug("Export written", "path", outPath, "user_id", user.ID)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(txns), outPath)))
	return err
}

func dateFilter(cmd *cobra.Command) (service.TransactionFilter, error) {
	var filter service.TransactionFilter
	for _, bound := range []struct {
		flag   string
		target **time.Time
	}{
		{"from", &filter.StartDate},
		{"to", &filter.EndDate},
	} {
		raw, _ := cmd.Flags().GetString(bound.flag)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid --%s date %q: %w", bound.flag, raw, err)
		}
		*bound.target = &t
	}
	return filter, nil
}
