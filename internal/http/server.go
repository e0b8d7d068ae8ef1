package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// BudgetAnalytics answers the budget and forecast endpoints.
type BudgetAnalytics interface {
	GetBudgetStatus(ctx context.Context, userID int64) (analytics.Report, error)
	SetBudget(ctx context.Context, userID int64, amount string) error
	GetForecast(ctx context.Context, userID int64) (analytics.ForecastSeries, error)
}

type Authenticator interface {
	Signup(ctx context.Context, name, email, password string) (core.User, error)
	Login(ctx context.Context, email, password string) (core.User, error)
}

type Ledger interface {
	CreateTransaction(ctx context.Context, in services.TransactionInput) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	CreateGoal(ctx context.Context, in services.GoalInput) (core.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	Dashboard(ctx context.Context, userID int64) (core.LedgerSummary, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server edge.
type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	Logger             *log.Logger
}

type Server struct {
	http.Server
	analytics BudgetAnalytics
	auth      Authenticator
	ledger    Ledger
	store     Pinger
	logger    *log.Logger

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

func NewServer(addr string, a BudgetAnalytics, auth Authenticator, ledger Ledger, store Pinger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		analytics: a,
		auth:      auth,
		ledger:    ledger,
		store:     store,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:  security.NewDetector(logger),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/", handleIndex)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/get_budget", s.handleGetBudget)
	r.Get("/predictions", s.handlePredictions)
	r.Get("/transactions", s.handleListTransactions)
	r.Get("/goals", s.handleListGoals)
	r.Get("/dashboard", s.handleDashboard)

	// Writes share the per-IP rate limit.
	r.Group(func(r chi.Router) {
		r.Use(limited)
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/add_budget", s.handleAddBudget)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Post("/goals", s.handleCreateGoal)
	})

	var handler http.Handler = r
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)
	handler = newCORS(opts.CORSAllowedOrigins).Handler(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func newCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
	})
}

// Shutdown stops accepting requests and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// failMessages overrides the client-facing text of route specific errors.
type failMessages struct {
	missing  string
	notFound string
}

// fail maps err onto the error envelope. Domain validation errors become
// 400s; only unexpected failures are logged at Error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msgs failMessages) {
	status, msg := classifyError(err, msgs)
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", log.FieldPath, r.URL.Path, log.FieldStatusCode, status, log.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", log.FieldPath, r.URL.Path, log.FieldStatusCode, status, log.FieldError, err)
	}
	errorEnvelope(status, msg).Write(w)
}

func errorEnvelope(status int, msg string) *JSONResponseBuilder {
	switch status {
	case http.StatusBadRequest:
		return BadRequestError(msg)
	case http.StatusNotFound:
		return NotFoundError(msg)
	case http.StatusInternalServerError:
		return InternalServerError()
	default:
		return ErrorResponse(status, msg)
	}
}

func classifyError(err error, msgs failMessages) (int, string) {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, "Invalid JSON body"
	case errors.Is(err, core.ErrMissingField):
		return http.StatusBadRequest, orDefault(msgs.missing, "Missing required fields")
	case errors.Is(err, core.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, core.ErrInvalidKind):
		return http.StatusBadRequest, "type must be income or expense"
	case errors.Is(err, core.ErrInvalidDate):
		return http.StatusBadRequest, "date must be YYYY-MM-DD"
	case errors.Is(err, core.ErrAlreadyExists):
		return http.StatusBadRequest, "Account already exists"
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, core.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, orDefault(msgs.notFound, "User not found")
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
