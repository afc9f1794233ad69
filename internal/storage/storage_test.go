package storage

import (
	"context"
	"testing"

	"github.com/ziadkadry99/partscope/internal/db"
)

func exercisePort(t *testing.T, p Port) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := p.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get(k) = %q, %v, %v; want v2", v, ok, err)
	}

	if err := p.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Error("key still present after Remove")
	}
	if err := p.Remove(ctx, "k"); err != nil {
		t.Errorf("removing an absent key should not fail: %v", err)
	}
}

func TestMemoryPort(t *testing.T) {
	exercisePort(t, NewMemory())
}

func TestSQLitePort(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	exercisePort(t, NewSQLite(database))
}

func TestScopedIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := SessionScope(mem, "a")
	b := SessionScope(mem, "b")

	if err := a.Set(ctx, "openrouter_api_key", "key-a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "openrouter_api_key"); ok {
		t.Error("session b sees session a's key")
	}

	keys := mem.Keys()
	if len(keys) != 1 || keys[0] != "session/a/openrouter_api_key" {
		t.Errorf("unexpected backing keys: %v", keys)
	}

	exercisePort(t, b)
}
