package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

type goalRequest struct {
	Deadline *time.Time      `json:"deadline"`
	Title    string          `json:"title"`
	Color    string          `json:"color"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
}

// goalResponse adds the derived progress ratio to a goal.
type goalResponse struct {
	model.Goal
	Progress float64 `json:"progress"`
}

func newGoalResponse(g model.Goal) goalResponse {
	return goalResponse{Goal: g, Progress: g.Progress()}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	goal := &model.Goal{
		UserID:   userFrom(r.Context()).ID,
		Title:    strings.TrimSpace(req.Title),
		Target:   req.Target,
		Current:  req.Current,
		Deadline: req.Deadline,
		Color:    req.Color,
	}
	if err := s.store.CreateGoal(r.Context(), goal); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newGoalResponse(*goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var update model.GoalUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.store.GetGoal(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	update.Apply(goal)
	if err := s.store.UpdateGoal(r.Context(), goal); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newGoalResponse(*goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteGoal(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}

// handleGoalPrediction projects completion at the ?monthly= contribution.
func (s *Server) handleGoalPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	monthly, err := decimal.NewFromString(r.URL.Query().Get("monthly"))
	if err != nil {
		s.writeError(w, r, badRequest("monthly must be a number"))
		return
	}

	goal, err := s.store.GetGoal(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	projection, err := advisor.PredictGoalCompletion(goal.Target, goal.Current, monthly, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projection)
}
