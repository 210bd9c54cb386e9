// Package server exposes the ledger as the JSON HTTP API consumed by the
// browser frontend, and serves the frontend's static files.
package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billtab/internal/auth"
	"github.com/mmynk/billtab/internal/ledger"
	"github.com/mmynk/billtab/internal/middleware"
)

// Server wires ledger operations to HTTP routes.
type Server struct {
	ledger    *ledger.Ledger
	tokens    *auth.TokenManager
	validate  *validator.Validate
	staticDir string
}

// New creates a Server. staticDir is the root of the frontend files; it may
// point at a missing directory, in which case only the API is served.
func New(l *ledger.Ledger, tokens *auth.TokenManager, staticDir string) *Server {
	return &Server{
		ledger:    l,
		tokens:    tokens,
		validate:  validator.New(),
		staticDir: staticDir,
	}
}

// Router builds the full route table, including metrics and static files.
// Logging and CORS are expected to wrap the returned handler; the metrics
// and optional-auth middlewares are registered here because they need the
// matched route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics, middleware.OptionalAuth(s.tokens))

	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/add_user", s.handleAddUser).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/delete_user", s.handleDeleteUser).Methods(http.MethodPost)
	r.HandleFunc("/api/users", s.handleListUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/bills", s.handleListBills).Methods(http.MethodGet)
	r.HandleFunc("/api/bills", s.handleCreateBill).Methods(http.MethodPost)
	r.HandleFunc("/api/bills/{id}", s.handleGetBill).Methods(http.MethodGet)
	r.HandleFunc("/api/bills/{id}/pay", s.handlePayShare).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/delete_bill", s.handleDeleteBill).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Everything else is the frontend.
	r.PathPrefix("/").HandlerFunc(s.handleStatic).Methods(http.MethodGet)

	return r
}

// handleStatic serves files from staticDir, falling back to index.html for
// unknown paths so client-side routes resolve.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	filePath := filepath.Join(s.staticDir, filepath.Clean(urlPath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
		return
	}
	http.ServeFile(w, r, filePath)
}
