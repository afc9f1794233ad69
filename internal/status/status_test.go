package status

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		backend, key bool
		mode         Mode
		label        string
	}{
		{true, true, Full, "Полный режим: поиск + чат"},
		{true, false, LocalOnly, "Только локальный поиск"},
		{false, true, ChatOnly, "Только чат ИИ"},
		{false, false, None, "ИИ недоступен"},
	}
	for _, tt := range tests {
		s := Compute(tt.backend, tt.key)
		if s.Mode != tt.mode || s.Label != tt.label {
			t.Errorf("Compute(%v, %v) = %+v, want %s %q", tt.backend, tt.key, s, tt.mode, tt.label)
		}
		if s.CanSearch() != tt.backend || s.CanChat() != tt.key {
			t.Errorf("capabilities of %s are wrong", s.Mode)
		}
		if s.Mode.Label() != tt.label {
			t.Errorf("Mode.Label() = %q", s.Mode.Label())
		}
	}
}

type countingPinger struct {
	calls int
	err   error
}

func (c *countingPinger) Ping(ctx context.Context) error {
	c.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.err
}

func TestProberCaches(t *testing.T) {
	pinger := &countingPinger{}
	p := NewProber(pinger, time.Minute, time.Second)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	if !p.Available(context.Background()) {
		t.Fatal("expected backend available")
	}
	pinger.err = errors.New("down")

	if !p.Available(context.Background()) {
		t.Error("cached result should still be available")
	}
	if pinger.calls != 1 {
		t.Errorf("pinged %d times within ttl, want 1", pinger.calls)
	}

	now = now.Add(2 * time.Minute)
	if p.Available(context.Background()) {
		t.Error("expected backend unavailable after ttl")
	}
	if pinger.calls != 2 {
		t.Errorf("pinged %d times, want 2", pinger.calls)
	}

	pinger.err = nil
	p.Invalidate()
	if !p.Available(context.Background()) {
		t.Error("Invalidate should force a new ping")
	}
}

func TestAvailableIgnoresCallerCancel(t *testing.T) {
	pinger := &countingPinger{}
	p := NewProber(pinger, time.Minute, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if !p.Available(ctx) {
		t.Fatal("a cancelled request should not mark the backend down")
	}
	if !p.Available(context.Background()) {
		t.Error("cached result should be available")
	}
	if pinger.calls != 1 {
		t.Errorf("pinged %d times, want 1", pinger.calls)
	}
}
