// Package history keeps the capped, newest-first list of recent questions.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadkadry99/partscope/internal/storage"
)

const (
	// StorageKey is where the serialized history lives in the storage port.
	StorageKey = "ai_query_history"
	// DefaultLimit caps the number of stored entries.
	DefaultLimit = 20
	// DefaultShown is how many entries the page lists.
	DefaultShown = 5
)

// Entry is one recorded question.
type Entry struct {
	Query           string `json:"query"`
	Type            string `json:"type"`
	Mode            string `json:"mode"`
	Timestamp       string `json:"timestamp"`
	Success         bool   `json:"success"`
	ResponseSnippet string `json:"response_snippet,omitempty"`
	ResultCount     int    `json:"result_count,omitempty"`
}

// Time parses the entry timestamp. Unparseable values give the zero time.
func (e Entry) Time() time.Time {
	t, _ := time.Parse(time.RFC3339, e.Timestamp)
	return t
}

// Store reads and writes the history list through a storage port.
type Store struct {
	port  storage.Port
	limit int
	now   func() time.Time

	// mu serializes read-modify-write on this Store only. Other writers to
	// the same key still race and the last write wins.
	mu sync.Mutex
}

// New creates a store capped at limit entries. A non-positive limit uses
// DefaultLimit.
func New(port storage.Port, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{port: port, limit: limit, now: time.Now}
}

// Limit returns the cap.
func (s *Store) Limit() int {
	return s.limit
}

// Record prepends e and truncates the list to the cap. Entries are never
// de-duplicated.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Timestamp == "" {
		e.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	entries := append([]Entry{e}, s.load(ctx)...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := s.port.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Entry returns the entry at index, counted from the newest.
func (s *Store) Entry(ctx context.Context, index int) (Entry, bool) {
	entries := s.List(ctx, 0)
	if index < 0 || index >= len(entries) {
		return Entry{}, false
	}
	return entries[index], true
}

// Clear drops every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.port.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// load reads the stored list. Missing or corrupt data is an empty history.
func (s *Store) load(ctx context.Context) []Entry {
	raw, ok, err := s.port.Get(ctx, StorageKey)
	if err != nil {
		slog.Warn("loading history", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("discarding corrupt history", "error", err)
		return nil
	}
	return entries
}
