package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth())
	r.Get("/status", s.handleStatus())
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Post("/v1/chat/completions", s.handleChatCompletions())

	r.Route("/api/memory", func(r chi.Router) {
		r.Get("/facts", s.handleGetFacts())
		r.Post("/facts", s.handleAddFact())
		r.Get("/conversations", s.handleGetConversations())
	})

	return r
}
