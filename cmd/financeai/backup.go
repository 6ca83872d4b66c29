package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a verified copy of the database",
		Long: `Copy the database to a new file while the server keeps running, then run an
integrity check on the copy.

Example:
  financeai backup --out ~/backups/financeai-2026-03-15.db`,
		Args: cobra.NoArgs,
		RunE: runBackup,
	}

	cmd.Flags().StringP("out", "o", "", "Destination file (default: next to the database, timestamped)")

	return cmd
}

func runBackup(cmd *cobra.Command, _ []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outPath == "" {
		base := strings.TrimSuffix(cfg.DatabasePath, filepath.Ext(cfg.DatabasePath))
		outPath = fmt.Sprintf("%s-%s.db", base, time.Now().Format("20060102-150405"))
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	info, err := store.Backup(cmd.Context(), outPath)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(info.RowCounts))
	for table := range info.RowCounts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	lines := []string{
		cli.LabelStyle.Render("File") + info.Path,
		cli.LabelStyle.Render("Size") + fmt.Sprintf("%d bytes", info.FileSize),
		cli.LabelStyle.Render("Schema") + fmt.Sprintf("v%d", info.SchemaVersion),
	}
	for _, table := range tables {
		lines = append(lines, cli.LabelStyle.Render(table)+fmt.Sprintf("%d rows", info.RowCounts[table]))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.SuccessIcon+" Backup complete", strings.Join(lines, "\n")))
	return err
}
