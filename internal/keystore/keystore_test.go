package keystore

import (
	"context"
	"errors"
	"testing"

	"github.com/ziadkadry99/partscope/internal/llm"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/storage"
)

const validKey = "sk-or-v1-0123456789abcdefwxyz"

type fakeValidator struct {
	info *llm.KeyInfo
	err  error
	keys []string
}

func (f *fakeValidator) KeyInfo(_ context.Context, apiKey string) (*llm.KeyInfo, error) {
	f.keys = append(f.keys, apiKey)
	return f.info, f.err
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), "")

	var changes int
	s.OnChange(func(context.Context) { changes++ })

	toasts := &notify.Collector{}
	if !s.Save(ctx, "  "+validKey+"\n", toasts) {
		t.Fatal("Save returned false for a valid key")
	}

	got, ok := s.Load(ctx)
	if !ok || got != validKey {
		t.Errorf("Load() = %q, %v", got, ok)
	}
	if changes != 1 {
		t.Errorf("change hook ran %d times, want 1", changes)
	}
	if n := toasts.Drain(); len(n) != 1 || n[0].Level != notify.LevelSuccess {
		t.Errorf("unexpected toasts %+v", n)
	}

	view := s.View(ctx)
	if !view.HasKey || !view.Obscured || view.Value != "sk-or-v1-012...wxyz" {
		t.Errorf("View() = %+v", view)
	}
}

func TestSaveRejectsWrongPrefixAndKeepsExisting(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), "")
	s.Save(ctx, validKey, notify.Discard)

	var changes int
	s.OnChange(func(context.Context) { changes++ })

	toasts := &notify.Collector{}
	if s.Save(ctx, "sk-ant-wrong", toasts) {
		t.Fatal("Save accepted a key without the prefix")
	}
	if got, _ := s.Load(ctx); got != validKey {
		t.Errorf("stored key changed to %q", got)
	}
	if changes != 0 {
		t.Error("change hook ran for a rejected key")
	}
	if n := toasts.Drain(); len(n) != 1 || n[0].Level != notify.LevelDanger {
		t.Errorf("expected one danger toast, got %+v", n)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	s := New(storage.NewMemory(), "")
	toasts := &notify.Collector{}

	if s.Save(context.Background(), "   ", toasts) {
		t.Fatal("Save accepted an empty key")
	}
	if s.HasKey(context.Background()) {
		t.Error("empty key should not be stored")
	}
	if n := toasts.Drain(); len(n) != 1 || n[0].Level != notify.LevelWarning {
		t.Errorf("expected one warning toast, got %+v", n)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), "")
	s.Save(ctx, validKey, notify.Discard)

	var changes int
	s.OnChange(func(context.Context) { changes++ })

	s.Clear(ctx, notify.Discard)
	if s.HasKey(ctx) {
		t.Error("key still present after Clear")
	}
	if changes != 1 {
		t.Errorf("change hook ran %d times, want 1", changes)
	}
	if view := s.View(ctx); view != (View{}) {
		t.Errorf("View() after Clear = %+v", view)
	}
}

func TestCustomPrefix(t *testing.T) {
	s := New(storage.NewMemory(), "test-")
	if !s.Save(context.Background(), "test-key", notify.Discard) {
		t.Error("custom prefix not honored")
	}
}

func TestMask(t *testing.T) {
	tests := []struct{ in, want string }{
		{validKey, "sk-or-v1-012...wxyz"},
		{"short", "*****"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), "")

	v := &fakeValidator{info: &llm.KeyInfo{Label: "main"}}
	if res := s.Validate(ctx, v, notify.Discard); res.Valid {
		t.Error("Validate without a stored key reported valid")
	}
	if len(v.keys) != 0 {
		t.Error("validator called without a stored key")
	}

	s.Save(ctx, validKey, notify.Discard)
	res := s.Validate(ctx, v, notify.Discard)
	if !res.Valid || res.Label != "main" {
		t.Errorf("Validate() = %+v", res)
	}
	if v.keys[0] != validKey {
		t.Errorf("validator got %q", v.keys[0])
	}

	v.err = &llm.HTTPError{StatusCode: 401, Message: "User not found."}
	toasts := &notify.Collector{}
	res = s.Validate(ctx, v, toasts)
	if res.Valid || res.Message != "User not found." {
		t.Errorf("Validate() = %+v", res)
	}
	if n := toasts.Drain(); len(n) != 1 || n[0].Level != notify.LevelDanger {
		t.Errorf("expected danger toast, got %+v", n)
	}
	if got, _ := s.Load(ctx); got != validKey {
		t.Error("Validate changed the stored key")
	}

	v.err = errors.New("dial tcp: connection refused")
	if res := s.Validate(ctx, v, notify.Discard); res.Valid {
		t.Error("network failure reported valid")
	}
}
