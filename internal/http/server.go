// Package http exposes the record, profile and session services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nota/internal/kv"
	"nota/internal/log"
	"nota/internal/services"
)

const (
	readyTimeout        = 2 * time.Second
	rateCleanupInterval = 5 * time.Minute
)

// Dependencies wires the server to the service layer.
type Dependencies struct {
	Records *services.RecordService
	Profile *services.ProfileService
	Auth    *services.AuthService
	// Ready is pinged by /readyz. Nil means always ready.
	Ready  kv.Pinger
	Logger *log.Logger
	// WriteLimit caps POST and PUT requests per client IP per minute.
	WriteLimit int
}

type Server struct {
	http.Server
	records     *services.RecordService
	profile     *services.ProfileService
	auth        *services.AuthService
	ready       kv.Pinger
	logger      *log.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		records:     deps.Records,
		profile:     deps.Profile,
		auth:        deps.Auth,
		ready:       deps.Ready,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(deps.WriteLimit),
	}
	go s.rateLimiter.startCleanup(rateCleanupInterval)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string { return RequestID(r.Context()) }))
	r.Use(s.accessLog)
	r.Use(securityHeaders)
	r.Use(s.limitWrites)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/status", s.handleAuthStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/invoices", s.handleListInvoices)
			r.Post("/invoices", s.handleCreateInvoice)
			r.Get("/invoices/{id}", s.handleGetInvoice)
			r.Post("/invoices/{id}/pay", s.handlePayInvoice)

			r.Get("/receipts", s.handleListReceipts)
			r.Post("/receipts", s.handleCreateReceipt)
			r.Get("/receipts/{id}", s.handleGetReceipt)

			r.Get("/dashboard", s.handleDashboard)

			r.Get("/profile/business", s.handleGetBusinessInfo)
			r.Put("/profile/business", s.handlePutBusinessInfo)
			r.Get("/profile/payment", s.handleGetPaymentData)
			r.Put("/profile/payment", s.handlePutPaymentData)
			r.Get("/profile/photo", s.handleGetPhoto)
			r.Put("/profile/photo", s.handlePutPhoto)
			r.Get("/profile/user", s.handleGetUser)

			r.Post("/amount/normalize", handleNormalizeAmount)
		})
	})
	return r
}

// Shutdown stops the limiter cleanup and drains the HTTP server once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		s.logger.InfoContext(ctx, "HTTP server shutting down", "rate_limited", s.rateLimiter.rejected())
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
