package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"traincal/internal/config"
	"traincal/internal/itinerary"
	appLog "traincal/internal/log"
	"traincal/internal/store"
	"traincal/internal/syncer"
)

// Backend is what the HTTP layer needs from the sync service.
type Backend interface {
	Reservations(ctx context.Context) ([]itinerary.Display, error)
	Sync(ctx context.Context) (store.Run, error)
	LatestRun(ctx context.Context) (store.Run, bool, error)
}

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

const reservationsCacheTTL = 30 * time.Second

// Server provides the reservation page and its JSON API.
type Server struct {
	cfg     *config.Config
	backend Backend
	mux     *http.ServeMux

	// Reading the inbox is slow, so the reservation list is cached briefly.
	// A sync clears the cache.
	reservationsMu    sync.RWMutex
	reservationsCache *reservationsCache

	now func() time.Time
}

type reservationsCache struct {
	list      []itinerary.Display
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, backend Backend) *Server {
	s := &Server{
		cfg:     cfg,
		backend: backend,
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials disable auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="traincal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config, backend Backend) error {
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewServer(cfg, backend).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/reservations", s.handleReservations)
	s.mux.HandleFunc("POST /api/sync", s.handleSync)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /sync", s.handleSyncForm)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// reservations returns the cached reservation list when it is fresh.
func (s *Server) reservations(ctx context.Context) ([]itinerary.Display, error) {
	s.reservationsMu.RLock()
	rc := s.reservationsCache
	s.reservationsMu.RUnlock()
	if rc != nil && s.now().Sub(rc.updatedAt) < reservationsCacheTTL {
		return rc.list, nil
	}

	list, err := s.backend.Reservations(ctx)
	if err != nil {
		return nil, err
	}

	s.reservationsMu.Lock()
	s.reservationsCache = &reservationsCache{list: list, updatedAt: s.now()}
	s.reservationsMu.Unlock()
	return list, nil
}

func (s *Server) dropReservationsCache() {
	s.reservationsMu.Lock()
	s.reservationsCache = nil
	s.reservationsMu.Unlock()
}

// handleReservations returns the display view of every reservation found in
// the inbox.
//
// GET /api/reservations
func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	list, err := s.reservations(r.Context())
	if err != nil {
		appLog.Error("api reservations failed", err)
		writeError(w, http.StatusInternalServerError, "failed to read reservations")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleSync runs one sync pass and returns its report. Per-reservation
// problems are part of the report; only a failed pass is an HTTP error.
//
// POST /api/sync
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	run, err := s.runSync(r.Context())
	switch {
	case errors.Is(err, syncer.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, run)
	default:
		writeJSON(w, http.StatusOK, run)
	}
}

func (s *Server) handleSyncForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.runSync(r.Context()); err != nil && !errors.Is(err, syncer.ErrBusy) {
		appLog.Error("sync from web page failed", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) runSync(ctx context.Context) (store.Run, error) {
	appLog.Info("sync requested over HTTP")
	run, err := s.backend.Sync(ctx)
	s.dropReservationsCache()
	return run, err
}

// handleReport returns the newest sync report.
//
// GET /api/report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, ok, err := s.backend.LatestRun(r.Context())
	if err != nil {
		appLog.Error("api report failed", err)
		writeError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no sync has run yet")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

type indexPage struct {
	Product      string
	Reservations []itinerary.Display
	Report       *store.Run
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := s.reservations(r.Context())
	if err != nil {
		appLog.Error("index: reservations failed", err)
		http.Error(w, "failed to read reservations", http.StatusInternalServerError)
		return
	}
	page := indexPage{Product: s.cfg.ProductName, Reservations: list}
	if run, ok, err := s.backend.LatestRun(r.Context()); err == nil && ok {
		page.Report = &run
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		appLog.Error("index: render failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
