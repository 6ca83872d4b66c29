package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/model"
)

const mailColumns = `user_id, email, secret, server, last_synced, transactions_count, created_at`

// SaveMailConnection creates or replaces the user's linked inbox.
// Replacing a connection resets its sync history.
func (s *SQLiteStorage) SaveMailConnection(ctx context.Context, conn *model.MailConnection) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMailConnection(conn); err != nil {
		return err
	}

	conn.CreatedAt = time.Now().UTC()
	conn.LastSynced = nil
	conn.TransactionsCount = 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mail_connections (user_id, email, secret, server, last_synced, transactions_count, created_at)
		VALUES (?, ?, ?, ?, NULL, 0, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			secret = excluded.secret,
			server = excluded.server,
			last_synced = NULL,
			transactions_count = 0,
			created_at = excluded.created_at
	`, conn.UserID, conn.Email, conn.Secret, conn.Server, conn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save mail connection: %w", err)
	}

	return nil
}

// GetMailConnection returns the user's linked inbox.
func (s *SQLiteStorage) GetMailConnection(ctx context.Context, userID int64) (*model.MailConnection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+mailColumns+` FROM mail_connections WHERE user_id = ?`, userID)

	conn, err := scanMailConnection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mail connection for user %d: %w", userID, common.ErrNotFound)
	}
	return conn, err
}

// ListMailConnections returns every linked inbox, for scheduled syncs.
func (s *SQLiteStorage) ListMailConnections(ctx context.Context) ([]model.MailConnection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+mailColumns+` FROM mail_connections ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mail connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var conns []model.MailConnection
	for rows.Next() {
		conn, err := scanMailConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, *conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mail connections: %w", err)
	}

	return conns, nil
}

// RecordMailSync stamps the sync time and adds imported to the running count.
func (s *SQLiteStorage) RecordMailSync(ctx context.Context, userID int64, syncedAt time.Time, imported int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(userID, "userID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE mail_connections
		SET last_synced = ?, transactions_count = transactions_count + ?
		WHERE user_id = ?
	`, syncedAt.UTC(), imported, userID)
	if err != nil {
		return fmt.Errorf("failed to record mail sync: %w", err)
	}
	return checkAffected(result, fmt.Sprintf("mail connection for user %d", userID))
}

// DeleteMailConnection unlinks the user's inbox.
func (s *SQLiteStorage) DeleteMailConnection(ctx context.Context, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(userID, "userID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM mail_connections WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mail connection: %w", err)
	}
	return checkAffected(result, fmt.Sprintf("mail connection for user %d", userID))
}

func scanMailConnection(row scanner) (*model.MailConnection, error) {
	var (
		conn       model.MailConnection
		lastSynced sql.NullTime
	)

	err := row.Scan(
		&conn.UserID,
		&conn.Email,
		&conn.Secret,
		&conn.Server,
		&lastSynced,
		&conn.TransactionsCount,
		&conn.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mail connection: %w", err)
	}

	conn.LastSynced = nullTime(&lastSynced)
	return &conn, nil
}
