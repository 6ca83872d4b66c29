// Package jobs runs background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/financeai/internal/mail"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the mail sync four times a day.
const DefaultSchedule = "@every 6h"

// ConnectionLister lists every linked inbox.
type ConnectionLister interface {
	ListMailConnections(ctx context.Context) ([]model.MailConnection, error)
}

// MailSyncer imports alerts for one user.
type MailSyncer interface {
	Sync(ctx context.Context, userID int64) (mail.Result, error)
}

// RunSummary reports a single pass over all connections.
type RunSummary struct {
	Users    int
	Failed   int
	Imported int
}

// Scheduler periodically syncs every connected inbox, one user at a time.
type Scheduler struct {
	cron     *cron.Cron
	store    ConnectionLister
	syncer   MailSyncer
	logger   *slog.Logger
	schedule string
	timeout  time.Duration
}

// NewScheduler validates schedule and registers the sync job. Each pass is
// bounded by timeout when it is positive. Overlapping passes are skipped.
func NewScheduler(schedule string, store ConnectionLister, syncer MailSyncer, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:    store,
		syncer:   syncer,
		logger:   logger,
		schedule: schedule,
		timeout:  timeout,
	}

	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.logger.Info("Mail sync scheduler started", "schedule", s.schedule)
	s.cron.Start()
}

// Stop prevents new runs and waits for a running pass to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Mail sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("Scheduled mail sync failed", "error", err)
	}
}

// RunOnce syncs every stored connection sequentially. A failure for one user
// is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) (RunSummary, error) {
	var summary RunSummary

	conns, err := s.store.ListMailConnections(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list mail connections: %w", err)
	}

	for _, conn := range conns {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Users++
		result, err := s.syncer.Sync(ctx, conn.UserID)
		if err != nil {
			summary.Failed++
			s.logger.Warn("Mail sync failed for user",
				"user_id", conn.UserID,
				"email", conn.Email,
				"error", err)
			continue
		}
		summary.Imported += result.Imported
	}

	s.logger.Info("Scheduled mail sync finished",
		"users", summary.Users,
		"failed", summary.Failed,
		"imported", summary.Imported)

	return summary, nil
}
