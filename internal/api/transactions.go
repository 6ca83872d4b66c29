package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/export"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 100

type transactionRequest struct {
	Date        *time.Time            `json:"date"`
	Title       string                `json:"title"`
	Category    string                `json:"category"`
	Type        model.TransactionType `json:"type"`
	Bank        string                `json:"bank"`
	Description string                `json:"description"`
	Amount      decimal.Decimal       `json:"amount"`
}

type importResponse struct {
	Accounts []string `json:"accounts"`
	Parsed   int      `json:"parsed"`
	Imported int      `json:"imported"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filter := service.TransactionFilter{Limit: limit, Offset: skip}
	if t := model.TransactionType(r.URL.Query().Get("type")); t != "" {
		if !t.Valid() {
			s.writeError(w, r, badRequest("type must be income or expense"))
			return
		}
		filter.Type = t
	}

	txns, err := s.store.ListTransactions(r.Context(), userFrom(r.Context()).ID, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	txn := &model.Transaction{
		UserID:      userFrom(r.Context()).ID,
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Type:        req.Type,
		Bank:        req.Bank,
		Description: req.Description,
		Amount:      req.Amount,
		Source:      model.SourceManual,
		Date:        s.now(),
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}

	if err := s.store.CreateTransaction(r.Context(), txn); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

// handleImportOFX accepts the raw OFX/QFX file as the request body.
func (s *Server) handleImportOFX(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	stmt, err := s.ofx.Parse(r.Context(), http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}

	imported, err := s.store.SaveTransactions(r.Context(), user.ID, stmt.Transactions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("Imported OFX statement",
		"user_id", user.ID,
		"parsed", len(stmt.Transactions),
		"imported", imported)

	accounts := stmt.Accounts
	if accounts == nil {
		accounts = []string{}
	}
	s.writeJSON(w, http.StatusOK, importResponse{
		Accounts: accounts,
		Parsed:   len(stmt.Transactions),
		Imported: imported,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListTransactions(r.Context(), userFrom(r.Context()).ID, service.TransactionFilter{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsXLSX(&buf, txns); err != nil {
		s.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
