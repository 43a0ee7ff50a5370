// Package web serves the drill to browsers: an HTML page driven by form posts
// and a small JSON API, one game per cookie session.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/logging"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Config  config.WebConfig
	Display config.DisplayConfig
	Store   *storage.Store // nil disables run history
	Logger  *log.Logger
	Seed    int64 // 0 picks a time-based seed per game
}

// Server is the HTTP front end.
type Server struct {
	cfg      config.WebConfig
	display  config.DisplayConfig
	store    *storage.Store
	logger   *log.Logger
	sessions *SessionStore
	metrics  *Metrics
	page     *template.Template
	router   *mux.Router
	http     *http.Server
}

// NewServer builds the router and parses the page template.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	page, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(f float64) int { return int(f*100 + 0.5) },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("web: cannot parse templates: %w", err)
	}

	s := &Server{
		cfg:     opts.Config,
		display: opts.Display,
		store:   opts.Store,
		logger:  logger,
		page:    page,
	}
	s.sessions = NewSessionStore(opts.Config.SessionIdle, opts.Seed, s.recordRun)
	s.metrics = NewMetrics(s.sessions.Len)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/answer", s.handleAnswer).Methods(http.MethodPost)
	r.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleAPIState).Methods(http.MethodGet)
	api.HandleFunc("/start", s.handleAPIStart).Methods(http.MethodPost)
	api.HandleFunc("/answer", s.handleAPIAnswer).Methods(http.MethodPost)
	api.HandleFunc("/reset", s.handleAPIReset).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Address
}

// recordRun saves a finished game to the run history.
func (s *Server) recordRun(e EndedGame) {
	if s.store == nil {
		return
	}
	snap := e.Game.Snapshot()
	if !storage.Worth(snap) {
		return
	}

	run := storage.RunFromSnapshot(e.Player, storage.FrontendWeb, snap, e.Started)
	id, err := s.store.SaveRun(run)
	if err != nil {
		s.logger.Warn("could not record run", "session", e.SessionID, "error", err)
		return
	}
	s.logger.Info("run recorded",
		"id", id,
		"player", run.Player,
		"start", run.StartLevel,
		"final", run.FinalLevel,
		"won", run.Won,
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Idle sessions are swept in the background while serving.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, s.cfg.SweepInterval)

	s.logger.Info("starting web server", "address", s.cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server and records every open session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.sessions.CloseAll()
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
