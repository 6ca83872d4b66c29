package api

import (
	"errors"
	"net/http"
	netmail "net/mail"
	"strings"

	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/model"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	addr, err := netmail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		s.writeError(w, r, badRequest("invalid email address"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := &model.User{
		Email:        strings.ToLower(addr.Address),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("User registered", "user_id", user.ID)
	s.writeJSON(w, http.StatusOK, user)
}

// handleToken implements the OAuth2 password grant form used by the frontend.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, badRequest("invalid form body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostForm.Get("username")))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		s.writeError(w, r, common.ErrInvalidCredentials)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.writeError(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.writeError(w, r, common.ErrInvalidCredentials)
		return
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		User:        user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, userFrom(r.Context()))
}
