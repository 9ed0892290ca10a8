// Package http serves the embedded frontend and the JSON API over the
// purchase ledger.
package http

import (
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
	"spendlog/internal/log"
	appweb "spendlog/web"
)

type Server struct {
	http.Server
	templates *template.Template
	logger    *log.Logger

	// All ledger and session access runs behind mu: mutations happen on one
	// logical actor, each action running to completion (validate, mutate,
	// persist) before the next is processed.
	mu      sync.Mutex
	store   *ledger.Store
	session *core.EditSession

	rateLimiter *rateLimiter
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store *ledger.Store, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger:      logger,
		store:       store,
		session:     &core.EditSession{},
		rateLimiter: newRateLimiter(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from the embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/purchases", s.withMiddleware(s.handleListPurchases))
	mux.HandleFunc("POST /api/purchases/{id}/edit", s.withMiddleware(s.handleBeginEdit))
	mux.HandleFunc("DELETE /api/purchases/{id}", s.withMiddleware(s.handleDeletePurchase))
	mux.HandleFunc("DELETE /api/purchases", s.withMiddleware(s.handleClearAll))
	mux.HandleFunc("POST /api/purchases/import", s.withMiddleware(s.handleImport))
	mux.HandleFunc("GET /api/purchases/export", s.withMiddleware(s.handleExport))
	mux.HandleFunc("POST /api/form/submit", s.withMiddleware(s.handleSubmit))
	mux.HandleFunc("POST /api/form/reset", s.withMiddleware(s.handleResetForm))
	mux.HandleFunc("GET /api/chart/weekly", s.withMiddleware(s.handleWeeklyChart))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}
		requestID := generateRequestID()

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.Warn("rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.Info("request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// rateLimiter is a small per-client limiter applied to mutating requests.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{clients: make(map[string]*clientInfo)}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists || now.Sub(client.lastRequest) > time.Minute {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		rl.dropStale(now)
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 120
}

// dropStale evicts clients idle for over ten minutes. Called inline while the
// lock is held; there is no background cleanup goroutine to manage.
func (rl *rateLimiter) dropStale(now time.Time) {
	cutoff := now.Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.Error("templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{
		Today: core.Today(),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
