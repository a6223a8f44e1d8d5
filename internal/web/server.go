package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Daframp/Shufflefy/internal/auth"
	"github.com/Daframp/Shufflefy/internal/spotify"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RootURI      string
	StaticFS     fs.FS
	Sessions     SessionManager   // defaults to an in-memory store
	Associations AssociationStore // nil disables the /db endpoints
	Logger       *log.Logger
}

// Server is the HTTP server for the backend.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions SessionManager
	handlers *Handlers
	logger   *log.Logger
}

// NewServer creates a new backend server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("missing Spotify client credentials")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewMemoryStore()
	}

	gateway := auth.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
	client := spotify.New()
	handlers := NewHandlers(gateway, client, sessions, cfg.Associations, cfg.RootURI, logger)

	s := &Server{
		router:   chi.NewRouter(),
		sessions: sessions,
		handlers: handlers,
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Auth routes
	s.router.Get("/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
	s.router.Post("/refresh", s.handlers.Refresh)

	// Relay routes
	s.router.Get("/playlists", s.handlers.Playlists)
	s.router.Post("/api/play-track", s.handlers.PlayTrack)
	s.router.Post("/api/add-to-queue", s.handlers.AddToQueue)
	s.router.Get("/api/get-random-song", s.handlers.RandomSong)
	s.router.Get("/api/getUserId", s.handlers.UserID)

	// Association routes. Both paths predate this server and carry
	// identical behavior, so they share one handler.
	s.router.Post("/db/getUserPlaylistId", s.handlers.UserPlaylistID)
	s.router.Post("/db/addSongs", s.handlers.UserPlaylistID)

	// Static shell with catch-all: any unmatched GET serves index.html so
	// the frontend router owns unknown paths.
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", fileServer)
		s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				respondError(w, http.StatusNotFound, "Not found")
				return
			}
			f, err := http.FS(staticFS).Open("static/index.html")
			if err != nil {
				http.NotFound(w, r)
				return
			}
			defer f.Close()
			stat, err := f.Stat()
			if err != nil {
				http.NotFound(w, r)
				return
			}
			http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
		})
	}
}

// requestLogger logs each request with method, path, status and duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the root HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
