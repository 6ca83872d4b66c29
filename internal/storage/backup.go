package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrBackupExists is returned when the backup destination is already present.
var ErrBackupExists = errors.New("backup file already exists")

var backupTables = []string{"users", "transactions", "goals", "accounts", "mail_connections"}

// BackupInfo describes a completed backup.
type BackupInfo struct {
	CreatedAt     time.Time
	RowCounts     map[string]int
	Path          string
	FileSize      int64
	SchemaVersion int
}

// Backup writes a consistent copy of the database to destPath and verifies it.
// An existing file at destPath is never overwritten.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(destPath, "destPath"); err != nil {
		return nil, err
	}

	if _, err := os.Stat(destPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, destPath)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.rowCounts(ctx)
	if err != nil {
		return nil, err
	}

	// VACUUM INTO takes a read transaction, so the copy is consistent even
	// with writers in WAL mode.
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	if err := verifyIntegrity(ctx, destPath); err != nil {
		_ = os.Remove(destPath)
		return nil, fmt.Errorf("backup failed verification: %w", err)
	}

	stat, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	return &BackupInfo{
		Path:          destPath,
		CreatedAt:     time.Now(),
		FileSize:      stat.Size(),
		SchemaVersion: version,
		RowCounts:     counts,
	}, nil
}

func (s *SQLiteStorage) rowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(backupTables))
	for _, table := range backupTables {
		var n int
		// #nosec G202 - table names come from backupTables
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close backup database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
