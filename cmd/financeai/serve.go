package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/financeai/internal/api"
	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/certs"
	"github.com/Veraticus/financeai/internal/cli"
	"github.com/Veraticus/financeai/internal/config"
	"github.com/Veraticus/financeai/internal/jobs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	shutdownTimeout = 15 * time.Second
	defaultCertDir  = "$HOME/.config/financeai/certs"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the JSON API used by the dashboard frontend.

When sync.enabled is set, connected inboxes are also synced in the background
on the sync.schedule cron schedule. With --tls the API is served over HTTPS
using a self-signed localhost certificate kept in --cert-dir.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr or :8000)")
	cmd.Flags().Bool("sync", false, "enable scheduled mail sync")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	cmd.Flags().String("cert-dir", defaultCertDir, "directory holding the localhost certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("sync.enabled", cmd.Flags().Lookup("sync"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireSecrets(); err != nil {
		return err
	}

	interruptHandler := cli.NewInterruptHandler(os.Stderr)
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Waiting for in-flight requests to finish.")

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tokens, err := auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	opts := api.Options{
		Store:       store,
		Tokens:      tokens,
		Logger:      slog.Default(),
		CORSOrigins: cfg.CORSOrigins,
	}

	syncer, err := newSyncer(store, cfg)
	if err != nil {
		slog.Warn("Mail sync disabled", "error", err)
	} else {
		opts.Mail = syncer
	}

	advisor, err := createLLMAdvisor()
	if err != nil {
		slog.Warn("AI advice disabled", "error", err)
	} else {
		opts.AI = advisor
	}

	var scheduler *jobs.Scheduler
	if cfg.SyncEnabled && syncer != nil {
		scheduler, err = jobs.NewScheduler(cfg.Schedule, store, syncer, 0, slog.Default())
		if err != nil {
			return err
		}
		scheduler.Start()
		slog.Info("Scheduled mail sync enabled", "schedule", cfg.Schedule)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	useTLS, _ := cmd.Flags().GetBool("tls")
	if useTLS {
		certDir, _ := cmd.Flags().GetString("cert-dir")
		tlsConfig, err := certs.NewStore(config.ExpandPath(certDir)).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		server.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Addr, "tls", useTLS)
		if useTLS {
			errCh <- server.ListenAndServeTLS("", "")
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			slog.Warn("Mail sync did not stop cleanly", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
