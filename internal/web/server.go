// Package web provides the HTTP server and request handlers for the
// club management API: authentication, roster management with bulk
// CSV import/export, file storage, practice planning and game tracking.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/clubhouse/internal/auth"
	"github.com/JonMunkholm/clubhouse/internal/config"
	"github.com/JonMunkholm/clubhouse/internal/files"
	"github.com/JonMunkholm/clubhouse/internal/games"
	"github.com/JonMunkholm/clubhouse/internal/practice"
	"github.com/JonMunkholm/clubhouse/internal/roster"
	mw "github.com/JonMunkholm/clubhouse/internal/web/middleware"
)

// Services bundles the domain services the handlers depend on.
type Services struct {
	Auth     *auth.Service
	Roster   *roster.Service
	Files    *files.Service
	Practice *practice.Service
	Games    *games.Service
	Storage  *files.Storage
}

// Server is the HTTP server for the club management application.
type Server struct {
	cfg    *config.Config
	svc    Services
	router *chi.Mux
	server *http.Server
}

// NewServer creates a configured server with all middleware and routes.
func NewServer(cfg *config.Config, svc Services) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(securityHeaders)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Public auth endpoints
	s.router.Post("/login", s.handleLogin)
	s.router.Post("/register", s.handleRegister)
	s.router.Post("/forgot-password", s.handleForgotPassword)
	s.router.Get("/reset-password/{token}", s.handleVerifyResetToken)
	s.router.Post("/reset-password/{token}", s.handleResetPassword)

	// Everything else requires a valid session
	s.router.Group(func(r chi.Router) {
		r.Use(mw.SessionAuth(s.svc.Auth, s.cfg.Session.CookieName))

		r.Post("/logout", s.handleLogout)
		r.Get("/dashboard", s.handleDashboard)

		// Roster
		r.Get("/roster", s.handleRoster)
		r.Get("/roster/export", s.handleRosterExport)
		r.Post("/bulk-import", s.handleBulkImport)
		r.Get("/download-template", s.handleDownloadTemplate)
		r.Post("/bulk-action", s.handleBulkAction)
		r.Post("/player", s.handleCreatePlayer)
		r.Get("/player/{playerID}", s.handleGetPlayer)
		r.Put("/player/{playerID}", s.handleUpdatePlayer)
		r.Delete("/player/{playerID}", s.handleDeletePlayer)
		r.Get("/player/{playerID}/documents", s.handleListDocuments)
		r.Post("/player/{playerID}/documents", s.handleUploadDocument)
		r.Get("/player/{playerID}/document/{documentID}/download", s.handleDownloadDocument)
		r.Delete("/player/{playerID}/document/{documentID}", s.handleDeleteDocument)

		// Files
		r.Get("/files/browse", s.handleBrowse)
		r.Get("/files/browse/{folderID}", s.handleBrowse)
		r.Get("/files/search", s.handleFileSearch)
		r.Post("/files/upload", s.handleFileUpload)
		r.Post("/files/create-folder", s.handleCreateFolder)
		r.Get("/files/download/{fileID}", s.handleFileDownload)
		r.Delete("/files/{fileID}", s.handleDeleteFile)
		r.Delete("/files/folder/{folderID}", s.handleDeleteFolder)

		// Practice plans
		r.Get("/practice-plans/teams", s.handleListTeams)
		r.Post("/practice-plans/teams", s.handleCreateTeam)
		r.Put("/practice-plans/team/{teamID}", s.handleUpdateTeam)
		r.Delete("/practice-plans/team/{teamID}", s.handleDeleteTeam)
		r.Get("/practice-plans/team/{teamID}", s.handleTeamPlans)
		r.Post("/practice-plans/add/{teamID}", s.handleCreatePlan)
		r.Get("/practice-plans/{planID}", s.handleGetPlan)
		r.Put("/practice-plans/{planID}", s.handleUpdatePlan)
		r.Delete("/practice-plans/{planID}", s.handleDeletePlan)
		r.Post("/practice-plans/{planID}/add-attachment", s.handleAddAttachment)
		r.Post("/practice-plans/{planID}/remove-attachment/{fileID}", s.handleRemoveAttachment)

		// Games and stats
		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/stats", s.handlePlayerStats)
		r.Get("/games/{gameID}", s.handleGetGame)
		r.Put("/games/{gameID}", s.handleUpdateGame)
		r.Delete("/games/{gameID}", s.handleDeleteGame)
		r.Post("/games/{gameID}/goals", s.handleAddGoal)
		r.Delete("/goals/{goalID}", s.handleDeleteGoal)
		r.Post("/goals/{goalID}/assists", s.handleAddAssist)
		r.Delete("/assists/{assistID}", s.handleDeleteAssist)
	})
}

// Start begins listening for HTTP requests. Blocks until the server
// stops or fails.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// to complete up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server")
	return s.server.Shutdown(ctx)
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders sets standard security response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a simple token-bucket limiter keyed by client IP.
type rateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    int
	window   time.Duration
	lastSeen map[string]time.Time
}

type bucket struct {
	tokens   int
	lastFill time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		buckets:  make(map[string]*bucket),
		limit:    limit,
		window:   window,
		lastSeen: make(map[string]time.Time),
	}
	go rl.cleanup()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.lastSeen[ip] = now

	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &bucket{tokens: rl.limit - 1, lastFill: now}
		return true
	}

	// Refill proportionally to time elapsed since last fill.
	elapsed := now.Sub(b.lastFill)
	refill := int(float64(rl.limit) * (float64(elapsed) / float64(rl.window)))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > rl.limit {
			b.tokens = rl.limit
		}
		b.lastFill = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, seen := range rl.lastSeen {
			if seen.Before(cutoff) {
				delete(rl.lastSeen, ip)
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// clientIP strips the port from a RemoteAddr so every connection from
// the same host shares one bucket. TrustedRealIP may have already
// replaced the value with a bare IP.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r.RemoteAddr)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
