// Package server exposes the estimate engine, listings, inquiries and the
// admin catalogue over HTTP.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/bahayahay/realty/internal/auth"
	"github.com/bahayahay/realty/internal/inquiry"
	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/internal/quote"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Dependencies are the services the handler routes to. Logger, Config and
// Metrics may be nil; defaults are used.
type Dependencies struct {
	Logger    *zap.Logger
	Config    *Config
	Version   string
	Store     listing.Store
	Quotes    *quote.Service
	Inquiries *inquiry.Service
	Auth      *auth.Service
	Metrics   *Metrics
}

type handler struct {
	logger    *zap.Logger
	version   string
	store     listing.Store
	quotes    *quote.Service
	inquiries *inquiry.Service
	auth      *auth.Service
	metrics   *Metrics
	limiter   *rateLimiter

	loginLimiter *rateLimiter
}

// Handler is the HTTP entry point. Close releases the background resources
// started for it.
type Handler struct {
	http.Handler
	limiters []*rateLimiter
}

// Close stops the rate limiters' cleanup loops.
func (h *Handler) Close() {
	for _, l := range h.limiters {
		l.Stop()
	}
}

// NewHandler constructs the HTTP handler that serves the landing page and the API.
func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	trimmedVersion := strings.TrimSpace(deps.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:    logger,
		version:   trimmedVersion,
		store:     deps.Store,
		quotes:    deps.Quotes,
		inquiries: deps.Inquiries,
		auth:      deps.Auth,
		metrics:   metrics,
		limiter:   newRateLimiter(cfg.InquiryRateLimit.Requests, cfg.InquiryRateLimit.Window),

		loginLimiter: newRateLimiter(cfg.LoginRateLimit.Requests, cfg.LoginRateLimit.Window),
	}

	r := chi.NewRouter()
	if cfg.BehindProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceHeader},
		ExposedHeaders:   []string{traceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)
	r.Use(bodyLimit(cfg.BodySizeBytes()))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/rates/options", h.handleRateOptions)

		r.Post("/estimate", h.handleEstimate)
		r.Get("/estimate", h.handleQuote)
		r.Get("/estimate/report", h.handleReport)

		r.Get("/series", h.handleListSeries)
		r.Get("/series/{id}", h.handleGetSeries)
		r.Get("/units", h.handleListUnits)
		r.Get("/units/{id}", h.handleGetUnit)
		r.Get("/lot-only", h.handleListLotOnly)
		r.Get("/lot-only/{id}", h.handleGetLotOnly)
		r.Get("/agents/{id}", h.handleGetAgent)
		r.Get("/developers", h.handleListDevelopers)
		r.Get("/developers/projects", h.handleListDeveloperProjects)

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit(h.limiter))
			r.Post("/contact", h.handleContact)
			r.Post("/book-viewing", h.handleBookViewing)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(h.rateLimit(h.loginLimiter)).Post("/login", h.handleLogin)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				mountCRUD(r, h, "/series", seriesResource(h.store))
				mountCRUD(r, h, "/units", unitResource(h.store))
				mountCRUD(r, h, "/lot-only", lotOnlyResource(h.store))
				mountCRUD(r, h, "/agents", agentResource(h.store))
			})
		})
	})

	// Static assets (landing page)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return &Handler{Handler: r, limiters: []*rateLimiter{h.limiter, h.loginLimiter}}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := h.store.(listing.Pinger); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed",
				zap.String("op", "server.handleHealth"),
				zap.Error(err),
			)
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) requireAdmin(next http.Handler) http.Handler {
	if h.auth == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.respondErrorWithOp(w, http.StatusServiceUnavailable, auth.ErrNotConfigured.Error(), "server.requireAdmin")
		})
	}
	return h.auth.Middleware(next)
}

// decodeJSON reads a JSON body into out, answering 413 or 400 itself on failure.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		h.respondBodyError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", maxBytesErr.Limit), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		log := h.logger.Warn
		if status >= http.StatusInternalServerError {
			log = h.logger.Error
		}
		log("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
