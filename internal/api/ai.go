package api

import (
	"net/http"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/llm"
)

type adviceRequest struct {
	Question string `json:"question"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		s.writeError(w, r, common.ErrMissingConfig)
		return
	}

	var req adviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	goals, err := s.store.ListGoals(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats := advisor.ComputeStats(txns, s.now())
	advice, err := s.ai.FinancialAdvice(r.Context(), req.Question, llm.FinancialContext{
		Stats:        &stats,
		Transactions: txns,
		Goals:        goals,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, adviceResponse{Advice: advice})
}

// handleAnalyze comments on the current month's spending. Provider failures
// degrade to a canned message rather than an error.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		s.writeError(w, r, common.ErrMissingConfig)
		return
	}

	txns, err := s.allTransactions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.ai.AnalyzeSpending(r.Context(), advisor.FilterMonth(txns, s.now())))
}
