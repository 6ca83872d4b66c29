package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoalColor is used when a goal is created without a color.
const DefaultGoalColor = "primary"

// Goal is a savings target the user is working towards.
type Goal struct {
	CreatedAt time.Time       `json:"created_at"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	Target    decimal.Decimal `json:"target"`
	Current   decimal.Decimal `json:"current"`
	Title     string          `json:"title"`
	Color     string          `json:"color"`
	ID        int64           `json:"id"`
	UserID    int64           `json:"-"`
}

// Progress returns Current/Target. It may exceed 1 and is 0 when Target is not positive.
func (g *Goal) Progress() float64 {
	if !g.Target.IsPositive() {
		return 0
	}
	return g.Current.Div(g.Target).InexactFloat64()
}

// GoalUpdate carries the fields of a partial goal update; nil fields are left unchanged.
type GoalUpdate struct {
	Title    *string          `json:"title,omitempty"`
	Target   *decimal.Decimal `json:"target,omitempty"`
	Current  *decimal.Decimal `json:"current,omitempty"`
	Deadline *time.Time       `json:"deadline,omitempty"`
	Color    *string          `json:"color,omitempty"`
}

// Apply copies the non-nil fields of u onto g.
func (u GoalUpdate) Apply(g *Goal) {
	if u.Title != nil {
		g.Title = *u.Title
	}
	if u.Target != nil {
		g.Target = *u.Target
	}
	if u.Current != nil {
		g.Current = *u.Current
	}
	if u.Deadline != nil {
		g.Deadline = u.Deadline
	}
	if u.Color != nil {
		g.Color = *u.Color
	}
}
