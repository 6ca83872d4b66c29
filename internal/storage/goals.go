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

const goalColumns = `id, user_id, title, target, current, deadline, color, created_at`

// CreateGoal inserts a savings goal and fills in its ID.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(goal); err != nil {
		return err
	}

	if goal.Color == "" {
		goal.Color = model.DefaultGoalColor
	}
	goal.CreatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, title, target, current, deadline, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, goal.UserID, goal.Title, goal.Target, goal.Current, deadlineValue(goal.Deadline), goal.Color, goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read goal id: %w", err)
	}
	goal.ID = id

	return nil
}

// ListGoals returns the user's goals in creation order.
func (s *SQLiteStorage) ListGoals(ctx context.Context, userID int64) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// GetGoal returns one of the user's goals.
func (s *SQLiteStorage) GetGoal(ctx context.Context, userID, id int64) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)

	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %d: %w", id, common.ErrNotFound)
	}
	return goal, err
}

// UpdateGoal overwrites the mutable fields of an existing goal.
func (s *SQLiteStorage) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(goal); err != nil {
		return err
	}
	if err := validateID(goal.ID, "id"); err != nil {
		return err
	}

	if goal.Color == "" {
		goal.Color = model.DefaultGoalColor
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, target = ?, current = ?, deadline = ?, color = ?
		WHERE id = ? AND user_id = ?
	`, goal.Title, goal.Target, goal.Current, deadlineValue(goal.Deadline), goal.Color, goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return checkAffected(result, fmt.Sprintf("goal %d", goal.ID))
}

// DeleteGoal removes one of the user's goals.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, userID, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return checkAffected(result, fmt.Sprintf("goal %d", id))
}

func deadlineValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanGoal(row scanner) (*model.Goal, error) {
	var (
		goal     model.Goal
		deadline sql.NullTime
	)

	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Target,
		&goal.Current,
		&deadline,
		&goal.Color,
		&goal.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}

	goal.Deadline = nullTime(&deadline)
	return &goal, nil
}
