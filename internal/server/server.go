// Package server hosts the woven output locally: static files, a small
// JSON API over the cross-reference store, and a live-reload socket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pkgw/tt-weave/internal/xref"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Dir      string // directory containing the woven output
	AllowAll bool   // allow all CORS origins (dev mode)
	Open     bool   // open a browser after startup
}

// Server is the ttweave preview server.
type Server struct {
	cfg        Config
	store      *xref.Store
	router     chi.Router
	httpServer *http.Server
	reload     *reloadHub
}

// New creates a preview server. store may be nil, in which case the
// cross-reference API is not mounted.
func New(cfg Config, store *xref.Store) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		reload: newReloadHub(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if s.store != nil {
		r.Get("/api/modules", s.handleModules)
		r.Get("/api/named/{name}", s.handleNamedModule)
		r.Get("/api/symbols", s.handleSymbols)
	}

	r.Get("/ws/reload", s.reload.handleWS)

	// Static files (must be registered after API routes).
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Dir)))

	return r
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	url := fmt.Sprintf("http://localhost:%d", s.cfg.Port)

	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	go s.reload.watch(ctx, s.cfg.Dir, 500*time.Millisecond)

	if s.cfg.Open {
		go openBrowser(url)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	log.Printf("server: serving %s at %s", s.cfg.Dir, url)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// moduleResponse is one major-module entry in API responses.
type moduleResponse struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// namedModuleResponse is a named-module lookup result.
type namedModuleResponse struct {
	Name        string `json:"name"`
	ID          int    `json:"id"`
	Definers    []int  `json:"definers"`
	Referencers []int  `json:"referencers"`
}

// symbolResponse is one symbol in API responses.
type symbolResponse struct {
	Text           string `json:"text"`
	DefiningModule int    `json:"defining_module"`
	Referencers    []int  `json:"referencers"`
}

// latestRun resolves the most recent weave, writing an error response if
// there is none.
func (s *Server) latestRun(w http.ResponseWriter, r *http.Request) *xref.Run {
	run, err := s.store.LatestRun(r.Context())
	if err != nil {
		http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
		return nil
	}
	if run == nil {
		http.Error(w, `{"error":"no weave recorded yet"}`, http.StatusNotFound)
		return nil
	}
	return run
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	run := s.latestRun(w, r)
	if run == nil {
		return
	}

	modules, err := s.store.Modules(r.Context(), run.ID)
	if err != nil {
		http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
		return
	}

	out := make([]moduleResponse, len(modules))
	for i, m := range modules {
		out[i] = moduleResponse{ID: m.ID, Description: m.Description}
	}
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleNamedModule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	run := s.latestRun(w, r)
	if run == nil {
		return
	}

	name := chi.URLParam(r, "name")
	nm, err := s.store.NamedModule(r.Context(), run.ID, name)
	if err != nil {
		http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
		return
	}
	if nm == nil {
		http.Error(w, `{"error":"unknown named module"}`, http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(namedModuleResponse{
		Name:        nm.Name,
		ID:          nm.ID,
		Definers:    emptyIfNil(nm.Definers),
		Referencers: emptyIfNil(nm.Referencers),
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	run := s.latestRun(w, r)
	if run == nil {
		return
	}

	symbols, err := s.store.SymbolsMatching(r.Context(), run.ID, r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
		return
	}

	out := make([]symbolResponse, len(symbols))
	for i, sym := range symbols {
		out[i] = symbolResponse{
			Text:           sym.Text,
			DefiningModule: sym.DefiningModule,
			Referencers:    emptyIfNil(sym.ReferencingModules),
		}
	}
	json.NewEncoder(w).Encode(out)
}

// emptyIfNil keeps JSON arrays as [] rather than null.
func emptyIfNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
