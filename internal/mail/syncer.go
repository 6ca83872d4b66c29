package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/extractor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/service"
)

// DefaultSyncDays is how far back a sync looks when none is configured.
const DefaultSyncDays = 30

const untitledTransaction = "Email transaction"

// Result summarizes a single sync run.
type Result struct {
	Fetched  int `json:"fetched"`
	Parsed   int `json:"parsed"`
	Imported int `json:"imported"`
}

// SyncerConfig configures a Syncer.
type SyncerConfig struct {
	Logger *slog.Logger
	Server string
	Days   int
	Limit  int
}

// Syncer links inboxes to users and imports the alerts found in them.
type Syncer struct {
	store     service.Storage
	dialer    Dialer
	box       *auth.SecretBox
	extractor *extractor.Extractor
	logger    *slog.Logger
	now       func() time.Time

	// OnProgress, when set, is called after each message is processed.
	OnProgress func(done, total int)

	server string
	days   int
	limit  int
}

// NewSyncer creates a syncer backed by store.
func NewSyncer(store service.Storage, dialer Dialer, box *auth.SecretBox, cfg SyncerConfig) *Syncer {
	s := &Syncer{
		store:     store,
		dialer:    dialer,
		box:       box,
		extractor: extractor.New(),
		logger:    cfg.Logger,
		now:       time.Now,
		server:    cfg.Server,
		days:      cfg.Days,
		limit:     cfg.Limit,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.server == "" {
		s.server = DefaultServer
	}
	if s.days <= 0 {
		s.days = DefaultSyncDays
	}
	if s.limit <= 0 {
		s.limit = DefaultFetchLimit
	}
	return s
}

// Connect verifies the credentials with a login and stores them encrypted.
func (s *Syncer) Connect(ctx context.Context, userID int64, address, password string) (*model.MailConnection, error) {
	address = strings.TrimSpace(address)
	if address == "" || password == "" {
		return nil, common.NewUserError("email and app password are required", common.ErrInvalidCredentials)
	}

	mbox, err := s.dialer.Dial(ctx, s.server, address, password)
	if err != nil {
		if errors.Is(err, ErrLoginFailed) {
			return nil, common.NewUserError("could not log in to the mailbox; check the address and app password", err)
		}
		return nil, err
	}
	_ = mbox.Close()

	sealed, err := s.box.Seal(password)
	if err != nil {
		return nil, err
	}

	conn := &model.MailConnection{
		UserID:    userID,
		Email:     address,
		Secret:    sealed,
		Server:    s.server,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveMailConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to save mail connection: %w", err)
	}

	s.logger.Info("Mail account connected", "user_id", userID, "email", address)
	return conn, nil
}

// Status returns the stored connection, or ErrNotConnected.
func (s *Syncer) Status(ctx context.Context, userID int64) (*model.MailConnection, error) {
	conn, err := s.store.GetMailConnection(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrNotConnected
	}
	return conn, err
}

// Disconnect forgets the user's mailbox. Imported transactions are kept.
func (s *Syncer) Disconnect(ctx context.Context, userID int64) error {
	err := s.store.DeleteMailConnection(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrNotConnected
	}
	return err
}

// Sync fetches recent alerts for the user and saves the transactions found.
// Messages that cannot be parsed are skipped.
func (s *Syncer) Sync(ctx context.Context, userID int64) (Result, error) {
	var result Result

	conn, err := s.Status(ctx, userID)
	if err != nil {
		return result, err
	}

	password, err := s.box.Open(conn.Secret)
	if err != nil {
		return result, fmt.Errorf("failed to unseal mail credentials: %w", err)
	}

	server := conn.Server
	if server == "" {
		server = s.server
	}

	mbox, err := s.dialer.Dial(ctx, server, conn.Email, password)
	if err != nil {
		return result, err
	}
	defer func() { _ = mbox.Close() }()

	since := s.now().AddDate(0, 0, -s.days)
	raws, err := mbox.FetchRecent(ctx, since, s.limit)
	if err != nil {
		return result, fmt.Errorf("%w: %w", common.ErrMailConnection, err)
	}
	result.Fetched = len(raws)

	txns := make([]model.Transaction, 0, len(raws))
	for i, raw := range raws {
		if txn, ok := s.toTransaction(raw); ok {
			txn.UserID = userID
			txns = append(txns, *txn)
		}
		if s.OnProgress != nil {
			s.OnProgress(i+1, len(raws))
		}
	}
	result.Parsed = len(txns)

	if len(txns) > 0 {
		imported, err := s.store.SaveTransactions(ctx, userID, txns)
		if err != nil {
			return result, fmt.Errorf("failed to save transactions: %w", err)
		}
		result.Imported = imported
	}

	if err := s.store.RecordMailSync(ctx, userID, s.now(), result.Imported); err != nil {
		return result, fmt.Errorf("failed to record sync: %w", err)
	}

	s.logger.Info("Mail sync complete",
		"user_id", userID,
		"fetched", result.Fetched,
		"parsed", result.Parsed,
		"imported", result.Imported)

	return result, nil
}

func (s *Syncer) toTransaction(raw []byte) (*model.Transaction, bool) {
	msg, err := ParseMessage(raw)
	if err != nil {
		s.logger.Debug("Skipping unreadable message", "error", err)
		return nil, false
	}

	txn, ok := s.extractor.Extract(msg.Subject, msg.Body)
	if !ok {
		return nil, false
	}

	if !msg.Date.IsZero() {
		txn.Date = msg.Date
	}
	if txn.Title == "" {
		txn.Title = untitledTransaction
	}
	txn.Description = msg.Subject
	return txn, true
}
