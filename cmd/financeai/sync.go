package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/jobs"
	"github.com/spf13/cobra"
)

func syncEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-email",
		Short: "Import transactions from a connected inbox",
		Long: `Fetch recent bank alerts from a user's connected inbox and import the
transactions found in them. Messages already imported are skipped.

Inboxes are connected through the API (POST /api/gmail/connect).

Examples:
  financeai sync-email --user me@example.com
  financeai sync-email --all`,
		Args: cobra.NoArgs,
		RunE: runSyncEmail,
	}

	cmd.Flags().StringP("user", "u", "", "Email of the account to sync")
	cmd.Flags().Bool("all", false, "Sync every connected inbox")
	cmd.MarkFlagsMutuallyExclusive("user", "all")
	cmd.MarkFlagsOneRequired("user", "all")

	return cmd
}

func runSyncEmail(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("user")
	all, _ := cmd.Flags().GetBool("all")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interruptHandler := cli.NewInterruptHandler(os.Stderr)
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Transactions imported so far are saved.")

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	syncer, err := newSyncer(store, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if all {
		scheduler, err := jobs.NewScheduler(cfg.Schedule, store, syncer, 0, slog.Default())
		if err != nil {
			return err
		}
		summary, err := scheduler.RunOnce(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Synced %d inboxes: %d transactions imported, %d failed",
			summary.Users, summary.Imported, summary.Failed)))
		return err
	}

	user, err := lookupUser(ctx, store, email)
	if err != nil {
		return err
	}

	progress := cli.NewProgress(os.Stderr, -1, "Reading alerts...")
	syncer.OnProgress = progress.Update

	result, err := syncer.Sync(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotConnected) {
			return fmt.Errorf("%s has no connected inbox; connect one with POST /api/gmail/connect", user.Email)
		}
		return err
	}
	progress.Finish()

	summary := fmt.Sprintf("%s %s\n", cli.LabelStyle.Render("Fetched"), strconv.Itoa(result.Fetched)) +
		fmt.Sprintf("%s %s\n", cli.LabelStyle.Render("Parsed"), strconv.Itoa(result.Parsed)) +
		fmt.Sprintf("%s %s", cli.LabelStyle.Render("Imported"), strconv.Itoa(result.Imported))
	_, err = fmt.Fprintln(out, cli.RenderBox(cli.MailIcon+" Mail sync complete", summary))
	return err
}
