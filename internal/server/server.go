// Package server exposes hand evaluation over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/handeval/internal/evaluator"
)

// Server represents the evaluation server
type Server struct {
	config      *Config
	upgrader    websocket.Upgrader
	evaluator   *evaluator.Evaluator
	logger      *log.Logger
	mu          sync.RWMutex
	connections map[*Connection]struct{}
	httpServer  *http.Server
}

// NewServer creates a new evaluation server
func NewServer(config *Config, logger *log.Logger) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		evaluator: evaluator.New(
			evaluator.WithWorkers(config.Server.Workers),
			evaluator.WithLogger(logger),
		),
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(s.requestLogger)
		r.Get("/health", s.handleHealth)
		r.Get("/evaluate", s.handleEvaluate)
	})

	return r
}

// requestLogger logs each completed HTTP request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request", middleware.GetReqID(r.Context()))
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting evaluation server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes open WebSocket connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", conn.ID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	if ok {
		s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register(client)
	client.Start()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleEvaluate evaluates one or more ?hand= query parameters.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	hands := r.URL.Query()["hand"]
	if len(hands) == 0 {
		http.Error(w, "at least one hand parameter is required", http.StatusBadRequest)
		return
	}
	if len(hands) > s.config.Server.MaxBatch {
		http.Error(w, fmt.Sprintf("batch of %d exceeds limit of %d", len(hands), s.config.Server.MaxBatch), http.StatusRequestEntityTooLarge)
		return
	}

	results, err := s.evaluate(r.Context(), hands)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ResultsData{Results: results}); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) evaluate(ctx context.Context, hands []string) ([]HandResult, error) {
	results, err := s.evaluator.Evaluate(ctx, hands)
	if err != nil {
		return nil, err
	}
	out := make([]HandResult, len(results))
	for i, r := range results {
		out[i] = newHandResult(r)
	}
	return out, nil
}
