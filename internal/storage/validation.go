// Package storage provides the SQLite persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/financeai/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidGoal        = errors.New("invalid goal")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidConnection  = errors.New("invalid mail connection")
)

// IsValidationError reports whether err was rejected by input validation
// rather than by the database.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyString, ErrNilParameter, ErrInvalidID, ErrInvalidDateRange,
		ErrInvalidUser, ErrInvalidTransaction, ErrInvalidGoal, ErrInvalidAccount,
		ErrInvalidConnection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidID, paramName, id)
	}
	return nil
}

func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: missing password hash", ErrInvalidUser)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.UserID <= 0 {
		return fmt.Errorf("%w: missing user", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, txn.Type)
	}
	return nil
}

func validateGoal(goal *model.Goal) error {
	if goal == nil {
		return fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if goal.UserID <= 0 {
		return fmt.Errorf("%w: missing user", ErrInvalidGoal)
	}
	if strings.TrimSpace(goal.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidGoal)
	}
	if !goal.Target.IsPositive() {
		return fmt.Errorf("%w: target must be positive", ErrInvalidGoal)
	}
	if goal.Current.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidGoal)
	}
	return nil
}

func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.UserID <= 0 {
		return fmt.Errorf("%w: missing user", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	return nil
}

func validateMailConnection(conn *model.MailConnection) error {
	if conn == nil {
		return fmt.Errorf("%w: mail connection", ErrNilParameter)
	}
	if conn.UserID <= 0 {
		return fmt.Errorf("%w: missing user", ErrInvalidConnection)
	}
	if strings.TrimSpace(conn.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidConnection)
	}
	if conn.Secret == "" {
		return fmt.Errorf("%w: missing secret", ErrInvalidConnection)
	}
	if strings.TrimSpace(conn.Server) == "" {
		return fmt.Errorf("%w: missing server", ErrInvalidConnection)
	}
	return nil
}
