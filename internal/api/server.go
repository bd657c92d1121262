// Package api serves the archived votes and bills, the collector counters
// and the rendered report pages.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/store"
)

// Database is the read side of the store. It is optional.
type Database interface {
	ListVotes(ctx context.Context, chamber string, year, limit, offset int) ([]store.VoteRecord, error)
	GetVote(ctx context.Context, chamber string, year, number int) (*store.VoteRecord, error)
	ListBills(ctx context.Context, billType string, year, limit, offset int) ([]store.BillRecord, error)
}

type Server struct {
	router *chi.Mux
	cfg    config.Config
	db     Database
}

// NewServer builds the router. db may be nil, in which case the /db
// routes answer 503.
func NewServer(cfg config.Config, db Database) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		db:     db,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/votes/{chamber}", s.handleListVotes)
	s.router.Get("/votes/{chamber}/{number}", s.handleGetVote)
	s.router.Get("/bills/{type}", s.handleGetBills)
	s.router.Get("/bills", s.handleTally)

	s.router.Route("/db", func(r chi.Router) {
		r.Use(s.requireDatabase)
		r.Get("/votes/{chamber}", s.handleDBListVotes)
		r.Get("/votes/{chamber}/{number}", s.handleDBGetVote)
		r.Get("/bills/{type}", s.handleDBListBills)
	})

	FileServer(s.router, "/reports", http.Dir(s.cfg.HTMLDir))
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) requireDatabase(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.db == nil {
			respondError(w, http.StatusServiceUnavailable, "database not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondRaw(w, status, response)
}

// respondRaw writes an already encoded document. Archived vote documents
// go through here so their key order survives.
func respondRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
