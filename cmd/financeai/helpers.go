package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/config"
	"github.com/Veraticus/financeai/internal/mail"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/Veraticus/financeai/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig reads the shared settings from viper.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initStorage opens the database at cfg.DatabasePath and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// lookupUser resolves the --user flag, which is an account email.
func lookupUser(ctx context.Context, store service.Storage, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("--user is required")
	}

	user, err := store.GetUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("no account registered for %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// newSyncer wires the IMAP dialer and mail secret box into a syncer.
func newSyncer(store service.Storage, cfg *config.Config) (*mail.Syncer, error) {
	box, err := auth.NewSecretBox(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid mail encryption key: %w", err)
	}

	dialer := mail.NewIMAPDialer(3, nil)
	return mail.NewSyncer(store, dialer, box, mail.SyncerConfig{
		Server: cfg.MailServer,
		Days:   cfg.SyncDays,
		Limit:  cfg.MaxMessages,
	}), nil
}
