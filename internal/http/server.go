// Package http exposes the expense service over a JSON REST API and serves
// the embedded browser client.
package http

import (
	"context"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/middleware/cors"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/middleware/security"
	"tracker/internal/middleware/trace"
	appweb "tracker/web"
)

// ExpenseService is the behaviour the handlers need from the service layer.
type ExpenseService interface {
	Create(ctx context.Context, f core.Fields) (core.Expense, error)
	Update(ctx context.Context, id int64, f core.Fields) (core.Expense, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context) ([]core.Expense, error)
	Summary(ctx context.Context) (core.Breakdown, error)
	Export(ctx context.Context) ([]byte, error)
	Ready(ctx context.Context) error
}

// Options tunes the middleware chain. The zero value disables rate limiting
// and allows any origin.
type Options struct {
	Logger             *applog.Logger
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	svc         ExpenseService
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		svc:         svc,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/expenses/summary", s.handleSummary)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("/api/", handleAPINotFound)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := security.StaticAssetMiddleware(3600)(http.FileServer(http.FS(sub)))
		mux.Handle("/", onlyGet(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	ips := security.NewIPResolver()
	limited := s.rateLimiter.Middleware(ips.ClientIP, s.handleRateLimited)(mux)
	withCORS := cors.New(origins).Middleware(limited)
	withHeaders := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(withCORS)
	handler := trace.NewMiddleware(logger, ips.ClientIP).Middleware(withHeaders)

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

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func onlyGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ready(ctx); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
