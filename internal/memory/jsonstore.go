package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryDocument is the persisted file format: one human-diffable JSON
// document holding the full fact set and conversation log.
type memoryDocument struct {
	Facts         map[string]map[string]factEntry `json:"facts"`
	Conversations []Conversation                  `json:"conversations"`
}

type factEntry struct {
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// JSONStore is a write-through Store backed by a single JSON file. The file
// is loaded wholesale at construction and rewritten wholesale on every
// mutation; the store is fully reconstructible from the file alone.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  memoryDocument
	now  func() time.Time
}

// Compile-time interface check.
var _ Store = (*JSONStore)(nil)

// OpenJSONStore loads (or initializes) the memory file at path. A missing
// file yields an empty store; a corrupt file is an error rather than a
// silent reset.
func OpenJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path: path,
		doc: memoryDocument{
			Facts: make(map[string]map[string]factEntry),
		},
		now: time.Now,
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: reading %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &s.doc); err != nil {
		return nil, fmt.Errorf("memory: parsing %s: %w", path, err)
	}
	if s.doc.Facts == nil {
		s.doc.Facts = make(map[string]map[string]factEntry)
	}
	return s, nil
}

// AddFact inserts or overwrites the (category, key) entry and persists the
// full store synchronously.
func (s *JSONStore) AddFact(category, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Facts[category] == nil {
		s.doc.Facts[category] = make(map[string]factEntry)
	}
	prev, existed := s.doc.Facts[category][key]
	s.doc.Facts[category][key] = factEntry{Value: value, Timestamp: s.now()}

	if err := s.persistLocked(); err != nil {
		// Roll back so memory and disk stay consistent.
		if existed {
			s.doc.Facts[category][key] = prev
		} else {
			delete(s.doc.Facts[category], key)
		}
		return err
	}
	return nil
}

// GetFact returns the fact stored under (category, key).
func (s *JSONStore) GetFact(category, key string) (Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.doc.Facts[category][key]
	if !ok {
		return Fact{}, fmt.Errorf("%w: %s/%s", ErrFactNotFound, category, key)
	}
	return Fact{
		Category:  category,
		Key:       key,
		Value:     entry.Value,
		CreatedAt: entry.Timestamp,
	}, nil
}

// FactsByCategory returns all facts in a category, sorted by key.
func (s *JSONStore) FactsByCategory(category string) ([]Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.doc.Facts[category]
	facts := make([]Fact, 0, len(entries))
	for key, entry := range entries {
		facts = append(facts, Fact{
			Category:  category,
			Key:       key,
			Value:     entry.Value,
			CreatedAt: entry.Timestamp,
		})
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].Key < facts[j].Key })
	return facts, nil
}

// AddConversation appends an exchange to the log and persists synchronously.
func (s *JSONStore) AddConversation(userInput, response string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := Conversation{
		ID:        uuid.New().String(),
		Timestamp: s.now(),
		UserInput: userInput,
		Response:  response,
	}
	s.doc.Conversations = append(s.doc.Conversations, conv)

	if err := s.persistLocked(); err != nil {
		s.doc.Conversations = s.doc.Conversations[:len(s.doc.Conversations)-1]
		return Conversation{}, err
	}
	return conv, nil
}

// RecentConversations returns the last limit entries, most-recent-last.
func (s *JSONStore) RecentConversations(limit int) ([]Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	log := s.doc.Conversations
	if limit > len(log) {
		limit = len(log)
	}
	out := make([]Conversation, limit)
	copy(out, log[len(log)-limit:])
	return out, nil
}

// Close is a no-op for the file-backed store; every mutation already
// persisted before returning.
func (s *JSONStore) Close() error { return nil }

// persistLocked serializes the full document and atomically replaces the
// memory file. Callers must hold the write lock.
func (s *JSONStore) persistLocked() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshal store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("memory: create directory %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("memory: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("memory: replace %s: %w", s.path, err)
	}
	return nil
}
