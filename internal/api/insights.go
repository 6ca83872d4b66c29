package api

import (
	"net/http"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/shopspring/decimal"
)

// allTransactions loads every transaction of the current user, newest first.
func (s *Server) allTransactions(r *http.Request) ([]model.Transaction, error) {
	return s.store.ListTransactions(r.Context(), userFrom(r.Context()).ID, service.TransactionFilter{})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, advisor.ComputeStats(txns, s.now()))
}

// handleSpending totals the current month's expenses by category.
func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	categories := advisor.SpendingByCategory(advisor.FilterMonth(txns, s.now()))
	if categories == nil {
		categories = []model.SpendingCategory{}
	}
	s.writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, advisor.SpendingTrend(txns, s.now().Location()))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	stats := advisor.ComputeStats(txns, now)
	s.writeJSON(w, http.StatusOK, advisor.SavingsInsight(stats, advisor.FilterMonth(txns, now)))
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	income, err := decimal.NewFromString(r.URL.Query().Get("income"))
	if err != nil {
		s.writeError(w, r, badRequest("income must be a number"))
		return
	}

	budget, err := advisor.SuggestBudget(income)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, budget)
}
