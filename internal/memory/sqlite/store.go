package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/memory"
)

// Store implements memory.Store on top of SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time interface check.
var _ memory.Store = (*Store)(nil)

// AddFact inserts or replaces the (category, key) entry. The write is
// durable when this returns (WAL journal, synchronous default).
func (s *Store) AddFact(category, key, value string) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT OR REPLACE INTO facts (category, key, value, created_at)
		VALUES (?, ?, ?, ?)`,
		category, key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: add fact %s/%s: %w", category, key, err)
	}
	return nil
}

// GetFact returns the fact stored under (category, key).
func (s *Store) GetFact(category, key string) (memory.Fact, error) {
	var (
		fact      memory.Fact
		createdAt string
	)
	err := s.db.QueryRowContext(context.Background(), `
		SELECT value, created_at FROM facts WHERE category = ? AND key = ?`,
		category, key,
	).Scan(&fact.Value, &createdAt)
	if err == sql.ErrNoRows {
		return memory.Fact{}, fmt.Errorf("%w: %s/%s", memory.ErrFactNotFound, category, key)
	}
	if err != nil {
		return memory.Fact{}, fmt.Errorf("sqlite: get fact %s/%s: %w", category, key, err)
	}

	fact.Category = category
	fact.Key = key
	fact.CreatedAt = parseTime(createdAt)
	return fact, nil
}

// FactsByCategory returns all facts in a category, sorted by key.
func (s *Store) FactsByCategory(category string) ([]memory.Fact, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT key, value, created_at FROM facts WHERE category = ? ORDER BY key`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: facts by category %s: %w", category, err)
	}
	defer func() { _ = rows.Close() }()

	facts := []memory.Fact{}
	for rows.Next() {
		var (
			fact      memory.Fact
			createdAt string
		)
		if err := rows.Scan(&fact.Key, &fact.Value, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan fact: %w", err)
		}
		fact.Category = category
		fact.CreatedAt = parseTime(createdAt)
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan facts rows: %w", err)
	}
	return facts, nil
}

// AddConversation appends an exchange to the log.
func (s *Store) AddConversation(userInput, response string) (memory.Conversation, error) {
	conv := memory.Conversation{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		UserInput: userInput,
		Response:  response,
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO conversations (id, created_at, user_input, response, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM conversations))`,
		conv.ID, conv.Timestamp.Format(time.RFC3339Nano), conv.UserInput, conv.Response,
	)
	if err != nil {
		return memory.Conversation{}, fmt.Errorf("sqlite: add conversation: %w", err)
	}
	return conv, nil
}

// RecentConversations returns the last limit entries, most-recent-last.
func (s *Store) RecentConversations(limit int) ([]memory.Conversation, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, created_at, user_input, response
		FROM (
			SELECT id, created_at, user_input, response, seq
			FROM conversations ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var convs []memory.Conversation
	for rows.Next() {
		var (
			conv      memory.Conversation
			createdAt string
		)
		if err := rows.Scan(&conv.ID, &createdAt, &conv.UserInput, &conv.Response); err != nil {
			return nil, fmt.Errorf("sqlite: scan conversation: %w", err)
		}
		conv.Timestamp = parseTime(createdAt)
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan conversation rows: %w", err)
	}
	return convs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
