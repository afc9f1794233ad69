// Package storage provides the key/value port that the credential and
// history stores persist through.
package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Port is a minimal string key/value store. Get reports ok=false for a
// missing key rather than an error.
type Port interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Memory is an in-memory Port, safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scoped prefixes every key before delegating to the wrapped Port, so one
// backing store can hold the state of many browser sessions.
type Scoped struct {
	port   Port
	prefix string
}

// NewScoped wraps port so that all keys live under prefix.
func NewScoped(port Port, prefix string) *Scoped {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Scoped{port: port, prefix: prefix}
}

// SessionScope returns the Port for one browser or CLI session.
func SessionScope(port Port, sessionID string) *Scoped {
	return NewScoped(port, "session/"+sessionID)
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.port.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.port.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.port.Remove(ctx, s.prefix+key)
}
