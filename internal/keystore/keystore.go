// Package keystore persists the user's OpenRouter credential.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ziadkadry99/partscope/internal/llm"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/storage"
)

const (
	// StorageKey is where the credential lives in the storage port.
	StorageKey = "openrouter_api_key"
	// DefaultPrefix is the prefix every OpenRouter key carries.
	DefaultPrefix = "sk-or-v1-"
)

// Validator describes a key to its issuer.
type Validator interface {
	KeyInfo(ctx context.Context, apiKey string) (*llm.KeyInfo, error)
}

// View is what the key input shows: the masked key once a key is stored,
// an empty plaintext field otherwise.
type View struct {
	Value    string
	Obscured bool
	HasKey   bool
}

// Validation is the outcome of a remote key check.
type Validation struct {
	Valid   bool
	Label   string
	Message string
}

// Store loads and saves the credential. Change hooks run after every
// successful Save or Clear.
type Store struct {
	port     storage.Port
	prefix   string
	onChange []func(context.Context)
}

// New creates a store over port. An empty prefix uses DefaultPrefix.
func New(port storage.Port, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{port: port, prefix: prefix}
}

// OnChange registers fn to run after the stored credential changes.
func (s *Store) OnChange(fn func(context.Context)) {
	s.onChange = append(s.onChange, fn)
}

// Save validates and persists input. An empty value or one without the
// required prefix is rejected with a toast and leaves any stored key
// untouched.
func (s *Store) Save(ctx context.Context, input string, sink notify.Sink) bool {
	key := strings.TrimSpace(input)
	if key == "" {
		sink.Notify(notify.LevelWarning, "Введите API ключ OpenRouter")
		return false
	}
	if !strings.HasPrefix(key, s.prefix) {
		sink.Notify(notify.LevelDanger, fmt.Sprintf("Неверный формат ключа: ключ должен начинаться с %s", s.prefix))
		return false
	}

	if err := s.port.Set(ctx, StorageKey, key); err != nil {
		slog.Error("saving api key", "error", err)
		sink.Notify(notify.LevelDanger, "Не удалось сохранить ключ")
		return false
	}

	sink.Notify(notify.LevelSuccess, "API ключ сохранён")
	s.changed(ctx)
	return true
}

// Load returns the stored credential. Storage errors count as absent.
func (s *Store) Load(ctx context.Context) (string, bool) {
	key, ok, err := s.port.Get(ctx, StorageKey)
	if err != nil {
		slog.Warn("loading api key", "error", err)
		return "", false
	}
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// HasKey reports whether a credential is stored.
func (s *Store) HasKey(ctx context.Context) bool {
	_, ok := s.Load(ctx)
	return ok
}

// Clear removes the stored credential.
func (s *Store) Clear(ctx context.Context, sink notify.Sink) {
	if err := s.port.Remove(ctx, StorageKey); err != nil {
		slog.Error("clearing api key", "error", err)
		sink.Notify(notify.LevelDanger, "Не удалось удалить ключ")
		return
	}
	sink.Notify(notify.LevelInfo, "API ключ удалён")
	s.changed(ctx)
}

// View returns the input state for the current credential.
func (s *Store) View(ctx context.Context) View {
	key, ok := s.Load(ctx)
	if !ok {
		return View{}
	}
	return View{Value: Mask(key), Obscured: true, HasKey: true}
}

// Validate asks v whether the stored key is accepted. The stored value is
// never changed by a check.
func (s *Store) Validate(ctx context.Context, v Validator, sink notify.Sink) Validation {
	key, ok := s.Load(ctx)
	if !ok {
		sink.Notify(notify.LevelWarning, "Сначала сохраните API ключ")
		return Validation{Message: "ключ не сохранён"}
	}

	info, err := v.KeyInfo(ctx, key)
	if err != nil {
		var httpErr *llm.HTTPError
		if errors.As(err, &httpErr) {
			sink.Notify(notify.LevelDanger, "Ключ отклонён: "+httpErr.Message)
			return Validation{Message: httpErr.Message}
		}
		sink.Notify(notify.LevelInfo, "Не удалось проверить ключ: сеть недоступна")
		return Validation{Message: err.Error()}
	}

	sink.Notify(notify.LevelSuccess, "Ключ действителен")
	return Validation{Valid: true, Label: info.Label, Message: "ok"}
}

func (s *Store) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}

// Mask shows the first 12 and last 4 characters of key. Keys too short to
// hide anything are fully starred.
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 16 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:12]) + "..." + string(r[len(r)-4:])
}
