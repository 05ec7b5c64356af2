package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/gkobilansky/conversion-goat/internal/store"
)

type Server struct {
	store     *store.SQLiteStore
	analyzer  *stats.Analyzer
	params    stats.Params
	logger    *slog.Logger
	port      int
	token     string
	tokenFile string
	router    *http.ServeMux
	metrics   *metrics
	startTime time.Time
}

// New builds a server over s. params are the defaults for requests that
// leave test parameters out.
func New(s *store.SQLiteStore, port int, tokenFile string, params stats.Params, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		store:     s,
		analyzer:  stats.NewAnalyzer(logger),
		params:    params,
		logger:    logger,
		port:      port,
		token:     generateToken(),
		tokenFile: tokenFile,
		router:    http.NewServeMux(),
		metrics:   newMetrics(),
		startTime: time.Now(),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Public endpoints
	s.handle("GET /health", "health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("GET /metrics", s.metrics.handler())

	// API endpoints (protected)
	s.handle("GET /api/experiments", "experiments", s.authMiddleware(http.HandlerFunc(s.handleListExperiments)))
	s.handle("GET /api/experiments/{name}/results", "results", s.authMiddleware(http.HandlerFunc(s.handleResults)))
	s.handle("POST /api/sample-size", "sample_size", s.authMiddleware(http.HandlerFunc(s.handleSampleSize)))
	s.handle("POST /api/ci", "ci", s.authMiddleware(http.HandlerFunc(s.handleCI)))
}

func (s *Server) handle(pattern, route string, h http.Handler) {
	s.router.Handle(pattern, s.metrics.instrument(route, h))
}

func (s *Server) Start() error {
	return s.StartWithOptions(true)
}

// StartQuiet starts the server without printing startup messages
func (s *Server) StartQuiet() error {
	return s.StartWithOptions(false)
}

func (s *Server) StartWithOptions(printMessages bool) error {
	// Write token to file for the token command
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.logger.Warn("failed to write token file", "path", s.tokenFile, "error", err)
		}
	}

	addr := fmt.Sprintf(":%d", s.port)

	if printMessages {
		fmt.Println()
		fmt.Printf("conversion-goat running on http://localhost:%d\n", s.port)
		fmt.Printf("API token: %s\n", s.token)
		fmt.Printf("Try: curl -H 'Authorization: Bearer %s' http://localhost:%d/api/experiments\n", s.token, s.port)
		fmt.Println()
		fmt.Println("Press Ctrl+C to stop")
	}

	s.logger.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(s.router)
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}
