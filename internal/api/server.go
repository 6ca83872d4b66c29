// Package api serves the JSON HTTP interface used by the dashboard frontend.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/financeai/internal/auth"
	"github.com/Veraticus/financeai/internal/llm"
	"github.com/Veraticus/financeai/internal/mail"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/ofx"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// MailService links inboxes and imports alerts from them.
type MailService interface {
	Connect(ctx context.Context, userID int64, address, password string) (*model.MailConnection, error)
	Status(ctx context.Context, userID int64) (*model.MailConnection, error)
	Sync(ctx context.Context, userID int64) (mail.Result, error)
	Disconnect(ctx context.Context, userID int64) error
}

// AIAdvisor answers free-form questions about the user's finances.
type AIAdvisor interface {
	FinancialAdvice(ctx context.Context, question string, fc llm.FinancialContext) (string, error)
	AnalyzeSpending(ctx context.Context, txns []model.Transaction) llm.Analysis
}

// Options configures a Server. Mail and AI are optional; their routes answer
// 503 when they are nil.
type Options struct {
	Store       service.Storage
	Tokens      *auth.TokenIssuer
	Mail        MailService
	AI          AIAdvisor
	Logger      *slog.Logger
	CORSOrigins []string
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	store   service.Storage
	tokens  *auth.TokenIssuer
	mail    MailService
	ai      AIAdvisor
	ofx     *ofx.Parser
	logger  *slog.Logger
	now     func() time.Time
	origins []string
}

// NewServer creates a server from opts.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   opts.Store,
		tokens:  opts.Tokens,
		mail:    opts.Mail,
		ai:      opts.AI,
		ofx:     ofx.NewParser(logger),
		logger:  logger,
		now:     time.Now,
		origins: opts.CORSOrigins,
	}
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)

	private := r.PathPrefix("/api").Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/users/me", s.handleMe).Methods(http.MethodGet)

	private.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	private.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	private.HandleFunc("/transactions/import", s.handleImportOFX).Methods(http.MethodPost)
	private.HandleFunc("/transactions/export", s.handleExport).Methods(http.MethodGet)
	private.HandleFunc("/transactions/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	private.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	private.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	private.HandleFunc("/goals/{id:[0-9]+}", s.handleUpdateGoal).Methods(http.MethodPut)
	private.HandleFunc("/goals/{id:[0-9]+}", s.handleDeleteGoal).Methods(http.MethodDelete)
	private.HandleFunc("/goals/{id:[0-9]+}/prediction", s.handleGoalPrediction).Methods(http.MethodGet)

	private.HandleFunc("/accounts", s.handleListAccounts).Methods(http.MethodGet)
	private.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)
	private.HandleFunc("/accounts/{id:[0-9]+}", s.handleDeleteAccount).Methods(http.MethodDelete)

	private.HandleFunc("/dashboard/stats", s.handleStats).Methods(http.MethodGet)
	private.HandleFunc("/analytics/spending", s.handleSpending).Methods(http.MethodGet)
	private.HandleFunc("/analytics/trend", s.handleTrend).Methods(http.MethodGet)
	private.HandleFunc("/advisor/insights", s.handleInsights).Methods(http.MethodGet)
	private.HandleFunc("/advisor/budget", s.handleBudget).Methods(http.MethodGet)

	private.HandleFunc("/ai/advice", s.handleAdvice).Methods(http.MethodPost)
	private.HandleFunc("/ai/analyze", s.handleAnalyze).Methods(http.MethodPost)

	private.HandleFunc("/gmail/connect", s.handleMailConnect).Methods(http.MethodPost)
	private.HandleFunc("/gmail/status", s.handleMailStatus).Methods(http.MethodGet)
	private.HandleFunc("/gmail/sync", s.handleMailSync).Methods(http.MethodPost)
	private.HandleFunc("/gmail/disconnect", s.handleMailDisconnect).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader, "Content-Disposition"}),
		handlers.AllowCredentials(),
	)

	return s.requestLogger(cors(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
