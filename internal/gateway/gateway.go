// Package gateway exposes the assistant over HTTP: an OpenAI-compatible
// chat endpoint, memory inspection routes, health and status, and
// Prometheus metrics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aura-ai/aura/internal/config"
	"github.com/aura-ai/aura/internal/memory"
)

// QueryProcessor is the orchestrator surface the gateway needs.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string) string
}

// Server is the HTTP gateway.
type Server struct {
	config    config.GatewayConfig
	processor QueryProcessor
	store     memory.Store
	metrics   *Metrics
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
	version   string
	model     string
}

// New creates a gateway server around the query processor and memory store.
func New(cfg config.GatewayConfig, processor QueryProcessor, store memory.Store, version, model string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:    cfg,
		processor: processor,
		store:     store,
		metrics:   NewMetrics(),
		logger:    logger.With("component", "gateway"),
		version:   version,
		model:     model,
	}
}

// Start begins serving. It returns once the listener is bound; serving
// continues on a background goroutine.
func (s *Server) Start() error {
	s.startedAt = time.Now()

	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", s.config.Addr)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		s.logger.Info("gateway listening", "addr", s.config.Addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("gateway shutting down")
	return s.server.Shutdown(shutdownCtx)
}
