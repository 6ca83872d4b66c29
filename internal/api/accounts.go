package api

import (
	"net/http"
	"strings"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

type accountRequest struct {
	Name        string          `json:"name"`
	Bank        string          `json:"bank"`
	AccountType string          `json:"account_type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account := &model.Account{
		UserID:      userFrom(r.Context()).ID,
		Name:        strings.TrimSpace(req.Name),
		Bank:        req.Bank,
		AccountType: req.AccountType,
		Currency:    strings.ToUpper(req.Currency),
		Balance:     req.Balance,
	}
	if err := s.store.CreateAccount(r.Context(), account); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteAccount(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
