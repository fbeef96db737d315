package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/aura-ai/aura/internal/memory"
)

const defaultConversationLimit = 20

type addFactRequest struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// handleGetFacts serves GET /api/memory/facts?category=... and returns the
// facts stored under that category.
func (s *Server) handleGetFacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "category parameter is required")
			return
		}

		facts, err := s.store.FactsByCategory(category)
		if err != nil {
			s.logger.Error("facts lookup failed", "category", category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to read facts")
			return
		}
		if facts == nil {
			facts = []memory.Fact{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"category": category, "facts": facts})
	}
}

// handleAddFact serves POST /api/memory/facts with a {category, key, value}
// body and stores the fact.
func (s *Server) handleAddFact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addFactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request format")
			return
		}
		if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Key) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "category and key are required")
			return
		}

		if err := s.store.AddFact(req.Category, req.Key, req.Value); err != nil {
			s.logger.Error("fact write failed", "category", req.Category, "key", req.Key, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to store fact")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":   "stored",
			"category": req.Category,
			"key":      req.Key,
		})
	}
}

// handleGetConversations serves GET /api/memory/conversations?limit=N.
func (s *Server) handleGetConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultConversationLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
				return
			}
			limit = n
		}

		conversations, err := s.store.RecentConversations(limit)
		if err != nil {
			s.logger.Error("conversation lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to read conversations")
			return
		}
		if conversations == nil {
			conversations = []memory.Conversation{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"conversations": conversations})
	}
}
