// Package http serves the toolkit pages.
//
// Pages are rendered on the server with html/template and enhanced with
// htmx. Every page request carries a visitor id (cookie) and a theme holder
// loaded from that visitor's preferences.
package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"startwise/internal/cache"
	"startwise/internal/checklist"
	"startwise/internal/content"
	"startwise/internal/core"
	"startwise/internal/forecast"
	"startwise/internal/log"
	"startwise/internal/middleware/ratelimit"
	"startwise/internal/middleware/security"
	"startwise/internal/middleware/trace"
	"startwise/internal/middleware/visitor"
	"startwise/internal/prefs"
	appweb "startwise/web"
)

type (
	// Backend is the storage the pages need: visitor preferences and a
	// readiness probe.
	Backend interface {
		prefs.Store
		Ping(ctx context.Context) error
	}

	// ContactSubmitter accepts contact form messages.
	ContactSubmitter interface {
		Submit(ctx context.Context, m core.ContactMessage) (int64, error)
	}

	Options struct {
		Backend  Backend
		Contacts ContactSubmitter
		Catalog  *content.Catalog
		Logger   *log.Logger

		PostRateLimit int
		CookieSecure  bool

		// PrefsCacheSize and PrefsCacheTTL size the preference read cache.
		PrefsCacheSize int
		PrefsCacheTTL  time.Duration
	}
)

type Server struct {
	http.Server

	logger *log.Logger
	events *log.StructuredLogger

	pages    map[string]*template.Template
	partials *template.Template

	backend   Backend
	prefs     *cache.PrefsStore
	catalog   *content.Catalog
	checklist *checklist.Service
	forecast  *forecast.Service
	contacts  ContactSubmitter

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	caches   *cache.Manager

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	if opts.PrefsCacheSize <= 0 {
		opts.PrefsCacheSize = 1000
	}
	if opts.PrefsCacheTTL <= 0 {
		opts.PrefsCacheTTL = 5 * time.Minute
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = content.MustLoad()
	}

	store := cache.NewPrefsStore(opts.Backend, opts.PrefsCacheSize, opts.PrefsCacheTTL)
	s := &Server{
		Server:    http.Server{Addr: addr, ReadHeaderTimeout: 10 * time.Second},
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
		backend:   opts.Backend,
		prefs:     store,
		catalog:   catalog,
		checklist: checklist.NewService(store, catalog),
		forecast:  forecast.NewService(store),
		contacts:  opts.Contacts,
		detector:  security.NewDetector(),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.PostRateLimit}),
		caches:    cache.NewManager(),
		now:       time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	s.caches.Register(store.Cleaner())
	s.caches.StartCleanup(10 * time.Minute)

	pages, partials, err := parseTemplates(appweb.TemplatesFS)
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.pages, s.partials = pages, partials

	s.Handler = s.routes(opts.CookieSecure)
	return s
}

func (s *Server) routes(cookieSecure bool) http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracer.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Handle("/static/*", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	pages := func(next http.Handler) http.Handler {
		return visitor.Middleware(visitor.Config{Secure: cookieSecure})(s.withTheme(next))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP))
		r.Use(pages)

		r.Get("/", s.handleHome)
		r.Post("/theme", s.handleSetTheme)

		r.Get("/checklist", s.handleChecklist)
		r.Get("/checklist/{item}", s.handleChecklistStep)
		r.Post("/checklist/{item}", s.handleChecklistSet)

		r.Get("/forecaster", s.handleForecaster)
		r.Post("/forecaster", s.handleForecastGenerate)
		r.Post("/forecaster/month", s.handleForecastMonth)
		r.Post("/forecaster/reset", s.handleForecastReset)
		r.Get("/forecaster.csv", s.handleForecastCSV)

		r.Get("/learn", s.handleLearn)
		r.Get("/learn/{slug}", s.handleArticle)

		r.Get("/contact", s.handleContact)
		r.Post("/contact", s.handleContactSubmit)
	})

	r.NotFound(pages(http.HandlerFunc(s.handleNotFound)).ServeHTTP)
	return r
}

// Shutdown stops the background cleanups and then the HTTP server. Only the
// first call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 until templates are parsed and the backend answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "backend": "ok"}
	status := http.StatusOK

	if s.pages == nil {
		checks["templates"] = "not loaded"
		status = http.StatusServiceUnavailable
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if s.backend == nil {
		checks["backend"] = "not configured"
		status = http.StatusServiceUnavailable
	} else if err := s.backend.Ping(ctx); err != nil {
		checks["backend"] = err.Error()
		status = http.StatusServiceUnavailable
		if !errors.Is(err, context.Canceled) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
		}
	}

	writeJSON(w, status, checks)
}
