// Package memory provides the assistant's durable long-term memory: a fact
// store keyed by (category, key) and an append-only conversation log.
// Implementations persist every mutation before returning — there is no
// in-memory-only state that a restart could lose.
package memory

import (
	"errors"
	"time"
)

// ErrFactNotFound indicates the requested fact does not exist. Absence is a
// first-class result, distinct from an I/O failure.
var ErrFactNotFound = errors.New("memory: fact not found")

// Fact is a single durable (category, key) → value memory entry.
// Within a category, keys are unique; a later write overwrites the prior
// value and timestamp (last-write-wins, no versioning).
type Fact struct {
	Category  string    `json:"category"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is one append-only log entry. Entries are never mutated or
// removed once appended; ordering is insertion order.
type Conversation struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserInput string    `json:"user_input"`
	Response  string    `json:"response"`
}

// Store is the assistant's long-term memory. Implementations must be safe
// for concurrent use: the HTTP gateway maps concurrent requests onto a
// shared store, so mutation is guarded by one writer lock per instance.
type Store interface {
	// AddFact inserts or overwrites the (category, key) entry and persists
	// the store synchronously. A persistence failure is returned, never
	// swallowed.
	AddFact(category, key, value string) error

	// GetFact returns the fact stored under (category, key), or
	// ErrFactNotFound if no such entry exists.
	GetFact(category, key string) (Fact, error)

	// FactsByCategory returns all facts in a category, sorted by key.
	// An unknown category yields an empty slice, not an error.
	FactsByCategory(category string) ([]Fact, error)

	// AddConversation appends an exchange to the log and persists it
	// synchronously. The stored record (with ID and timestamp) is returned.
	AddConversation(userInput, response string) (Conversation, error)

	// RecentConversations returns the last limit entries, most-recent-last.
	// It is a consistent snapshot as of call time; limit <= 0 yields nil.
	RecentConversations(limit int) ([]Conversation, error)

	// Close releases any resources held by the store.
	Close() error
}
