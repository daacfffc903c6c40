// Package api provides the HTTP API server and handlers for the rosary
// application.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/http/response"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/ratelimit"
	"github.com/sacredrosary/rosary-server/internal/store"
)

// Options holds the HTTP surface settings that do not come from a service.
type Options struct {
	Version string
	// CORSOrigins defaults to every origin.
	CORSOrigins []string
	// RateLimitRPS is the per-IP budget for /api routes; 0 disables limiting.
	RateLimitRPS float64
	RateBurst    int
	// AudioDir is served under /audio/; empty disables the route.
	AudioDir string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	songs    *Songs
	opts     Options
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, songs *Songs, opts Options, log *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		store:    st,
		services: services,
		songs:    songs,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logger.OrDiscard(log),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = ratelimit.New(opts.RateLimitRPS, max(opts.RateBurst, 1))
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Rosary API", opts.Version)
	humaConfig.Info.Description = "Prayers, intentions, custom prayers, user profiles and the devotional song catalog."
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerPrayerRoutes()
	s.registerIntentionRoutes()
	s.registerCustomPrayerRoutes()
	s.registerProfileRoutes()
	s.registerSongRoutes()
	s.registerAudioRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, e.g. for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// registerAudioRoutes serves the catalog's audio files with Range support
// so players can seek. Only flat file names under AudioDir resolve.
func (s *Server) registerAudioRoutes() {
	if s.opts.AudioDir == "" {
		return
	}
	s.router.Get("/audio/*", s.handleServeAudio)
}

func (s *Server) handleServeAudio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" || strings.HasPrefix(path.Base(name), ".") {
		response.NotFound(w, "Audio file not found", s.logger)
		return
	}

	f, err := os.Open(catalog.ResolvePath(s.opts.AudioDir, name)) //#nosec G304 -- resolved under AudioDir
	if err != nil {
		response.NotFound(w, "Audio file not found", s.logger)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		response.NotFound(w, "Audio file not found", s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheOneDay)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
