// Package http exposes the JSON API. Routing is the standard library mux
// with method patterns; middleware handles tracing, security headers, and
// rate limiting.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"bilancio/internal/auth"
	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/middleware/security"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/services"
)

// Services bundles everything the API serves.
type Services struct {
	Users        *services.UserService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Budgets      *services.BudgetService
	Recurring    *services.RecurringService
	Planned      *services.PlannedService
	Dashboard    *services.DashboardService
}

type Server struct {
	http.Server

	svc    Services
	tokens *auth.TokenIssuer

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, svc Services, tokens *auth.TokenIssuer) *Server {
	s := &Server{
		svc:     svc,
		tokens:  tokens,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/{id}", s.requireAuth(s.handleGetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/budgets", s.requireAuth(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.requireAuth(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets/{id}", s.requireAuth(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.requireAuth(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.requireAuth(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/recurring", s.requireAuth(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.requireAuth(s.handleCreateRecurring))
	mux.HandleFunc("GET /api/recurring/{id}", s.requireAuth(s.handleGetRecurring))
	mux.HandleFunc("PUT /api/recurring/{id}", s.requireAuth(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.requireAuth(s.handleDeleteRecurring))
	mux.HandleFunc("POST /api/recurring/{id}/toggle", s.requireAuth(s.handleToggleRecurring))

	mux.HandleFunc("GET /api/planned", s.requireAuth(s.handleListPlanned))
	mux.HandleFunc("POST /api/planned", s.requireAuth(s.handleCreatePlanned))
	mux.HandleFunc("GET /api/planned/{id}", s.requireAuth(s.handleGetPlanned))
	mux.HandleFunc("PUT /api/planned/{id}", s.requireAuth(s.handleUpdatePlanned))
	mux.HandleFunc("DELETE /api/planned/{id}", s.requireAuth(s.handleDeletePlanned))
	mux.HandleFunc("POST /api/planned/{id}/pay", s.requireAuth(s.handlePayPlanned))

	mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("GET /api/dashboard/summary", s.requireAuth(s.handleDashboardSummary))
	mux.HandleFunc("GET /api/dashboard/categories", s.requireAuth(s.handleDashboardCategories))
	mux.HandleFunc("GET /api/dashboard/recent", s.requireAuth(s.handleDashboardRecent))
	mux.HandleFunc("GET /api/dashboard/trend", s.requireAuth(s.handleDashboardTrend))
	mux.HandleFunc("GET /api/dashboard/projection", s.requireAuth(s.handleDashboardProjection))

	traceMW := trace.NewMiddleware(extractClientIP)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(extractClientIP, nil)

	handler := traceMW.Middleware(headersMW.Middleware(limitMW(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and its cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireAuth verifies the bearer token and stashes the user id into the
// request context. Handlers downstream read it with auth.UserID.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, r, auth.ErrInvalidToken)
			return
		}

		userID, err := s.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, r, err)
			return
		}

		next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	}
}

// userID is a handler-side convenience; requireAuth guarantees presence.
func userID(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// First hop wins
		if i := strings.IndexByte(ip, ','); i > 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
