// Package testutil provides shared fixtures for tests that need a real database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB is a migrated in-memory database owned by a single test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database and runs migrations.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustCreateUser inserts a user with a placeholder password hash.
func (db *TestDB) MustCreateUser(email string) *model.User {
	db.t.Helper()

	user := &model.User{Email: email, Name: "Test User", PasswordHash: "not-a-real-hash"}
	if err := db.Storage.CreateUser(context.Background(), user); err != nil {
		db.t.Fatalf("failed to create user %q: %v", email, err)
	}
	return user
}

// MustAddTransaction inserts a manual transaction for userID.
func (db *TestDB) MustAddTransaction(userID int64, title, amount string, typ model.TransactionType, category string, date time.Time) *model.Transaction {
	db.t.Helper()

	txn := &model.Transaction{
		UserID:   userID,
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Date:     date,
	}
	if err := db.Storage.CreateTransaction(context.Background(), txn); err != nil {
		db.t.Fatalf("failed to add transaction %q: %v", title, err)
	}
	return txn
}
