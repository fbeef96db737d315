// Package handler contains specialized response handlers. After the agent
// loop produces an intermediate result, the first handler whose pattern
// matches the query rewrites that result into a domain-specific answer.
package handler

import (
	"context"
	"log/slog"

	"github.com/aura-ai/aura/internal/agent"
)

// Request carries a query and the agent's intermediate result to a handler.
type Request struct {
	// Query is the user's original input.
	Query string

	// Agent is the agent loop output, including the tool call trace.
	// Handlers reuse trace output (notably web search results) instead
	// of repeating the work.
	Agent agent.Response
}

// Handler is a specialized response generator for one query family.
type Handler interface {
	// Name returns the handler's identifier for logging.
	Name() string

	// CanHandle reports whether this handler should process the query.
	CanHandle(query string) bool

	// Handle turns the agent's intermediate result into a final response.
	Handle(ctx context.Context, req Request) (string, error)
}

// Registry is an ordered handler list. Selection is first-match: handlers
// registered earlier win, and later handlers are not consulted.
type Registry struct {
	handlers []Handler
	logger   *slog.Logger
}

// NewRegistry creates a registry with the given handlers in match order.
func NewRegistry(logger *slog.Logger, handlers ...Handler) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: handlers,
		logger:   logger.With("component", "handler"),
	}
}

// Register appends a handler after the existing ones.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Select returns the first handler that can handle the query, or nil when
// none matches and the caller should use the default response path.
func (r *Registry) Select(query string) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(query) {
			r.logger.Debug("handler selected", "handler", h.Name())
			return h
		}
	}
	return nil
}
