// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/financeai/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
// Every user-owned record is scoped by user ID; a record owned by another user
// is reported as common.ErrNotFound.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	SaveTransactions(ctx context.Context, userID int64, transactions []model.Transaction) (int, error)
	ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error

	// Goal operations
	CreateGoal(ctx context.Context, goal *model.Goal) error
	ListGoals(ctx context.Context, userID int64) ([]model.Goal, error)
	GetGoal(ctx context.Context, userID, id int64) (*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, id int64) error

	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	ListAccounts(ctx context.Context, userID int64) ([]model.Account, error)
	DeleteAccount(ctx context.Context, userID, id int64) error

	// Mail connection operations
	SaveMailConnection(ctx context.Context, conn *model.MailConnection) error
	GetMailConnection(ctx context.Context, userID int64) (*model.MailConnection, error)
	ListMailConnections(ctx context.Context) ([]model.MailConnection, error)
	RecordMailSync(ctx context.Context, userID int64, syncedAt time.Time, imported int) error
	DeleteMailConnection(ctx context.Context, userID int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
