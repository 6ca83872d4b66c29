package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/llm"
	"github.com/Veraticus/financeai/internal/mail"
	"github.com/Veraticus/financeai/internal/storage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// maxUploadBytes caps OFX uploads.
const maxUploadBytes = 10 << 20

var errBadRequest = errors.New("bad request")

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps err onto a status code. Unexpected errors are logged and
// reported without their internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	s.writeDetail(w, status, detail)
}

func classifyError(err error) (int, string) {
	var userErr *common.UserError
	var inputErr *advisor.InputError

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Err.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, llm.ErrEmptyQuestion),
		errors.Is(err, auth.ErrEmptyPassword),
		storage.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		if errors.As(err, &userErr) {
			return http.StatusBadRequest, userErr.UserMessage
		}
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, common.ErrNotConnected):
		return http.StatusNotFound, "No mail account connected"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &userErr):
		return http.StatusBadRequest, userErr.UserMessage
	case errors.Is(err, common.ErrProviderFailure):
		return http.StatusBadGateway, "AI provider request failed"
	case errors.Is(err, mail.ErrLoginFailed):
		return http.StatusBadGateway, "The mail server rejected the stored credentials; reconnect the account"
	case errors.Is(err, common.ErrMailConnection):
		return http.StatusBadGateway, "Could not reach the mail server"
	case errors.Is(err, common.ErrMissingConfig):
		return http.StatusServiceUnavailable, "Feature is not configured on this server"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer", name)
	}
	return n, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(muxVar(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id")
	}
	return id, nil
}
