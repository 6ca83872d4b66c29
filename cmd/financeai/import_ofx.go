package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.
Transactions already imported are skipped.

Examples:
  # Import single file
  financeai import-ofx --user me@example.com ~/Downloads/chase_jan.qfx

  # Import all QFX files in a directory
  financeai import-ofx --user me@example.com ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("user", "u", "", "Email of the account to import into (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("user")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
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

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Importing %d OFX files", len(files)))); err != nil {
		return err
	}
	slog.Debug("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	parser := ofx.NewParser(slog.Default())
	progress := cli.NewProgress(os.Stderr, len(files), "Parsing statements...")

	var all []model.Transaction
	for i, path := range files {
		txns, err := parseOFXFile(cmd, parser, path)
		if err != nil {
			slog.Error("Failed to import file", "file", path, "error", err)
		} else {
			all = append(all, txns...)
		}
		progress.Update(i+1, len(files))
	}
	progress.Finish()

	if dryRun {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions parsed, nothing saved", len(all))))
		return err
	}

	imported, err := store.SaveTransactions(ctx, user.ID, all)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions (%d already present)",
		imported, len(all), len(all)-imported)))
	return err
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	file, err := os.Open(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return parser.ParseFile(cmd.Context(), file)
}
