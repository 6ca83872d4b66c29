package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Veraticus/financeai/internal/common"
)

type mailConnectRequest struct {
	Email       string `json:"email"`
	AppPassword string `json:"app_password"`
}

type mailStatusResponse struct {
	LastSynced        *time.Time `json:"last_synced"`
	Email             string     `json:"email,omitempty"`
	Connected         bool       `json:"connected"`
	TransactionsFound int        `json:"transactions_found"`
}

func (s *Server) handleMailConnect(w http.ResponseWriter, r *http.Request) {
	if s.mail == nil {
		s.writeError(w, r, common.ErrMissingConfig)
		return
	}

	var req mailConnectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.mail.Connect(r.Context(), userFrom(r.Context()).ID, req.Email, req.AppPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, mailStatusResponse{
		Connected: true,
		Email:     conn.Email,
	})
}

func (s *Server) handleMailStatus(w http.ResponseWriter, r *http.Request) {
	if s.mail == nil {
		s.writeJSON(w, http.StatusOK, mailStatusResponse{})
		return
	}

	conn, err := s.mail.Status(r.Context(), userFrom(r.Context()).ID)
	if errors.Is(err, common.ErrNotConnected) {
		s.writeJSON(w, http.StatusOK, mailStatusResponse{})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, mailStatusResponse{
		Connected:         true,
		Email:             conn.Email,
		LastSynced:        conn.LastSynced,
		TransactionsFound: conn.TransactionsCount,
	})
}

func (s *Server) handleMailSync(w http.ResponseWriter, r *http.Request) {
	if s.mail == nil {
		s.writeError(w, r, common.ErrMissingConfig)
		return
	}

	result, err := s.mail.Sync(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMailDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.mail == nil {
		s.writeError(w, r, common.ErrMissingConfig)
		return
	}

	if err := s.mail.Disconnect(r.Context(), userFrom(r.Context()).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Mail account disconnected"})
}
