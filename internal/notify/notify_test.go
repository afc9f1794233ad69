package notify

import "testing"

func TestCollectorDrain(t *testing.T) {
	var c Collector
	c.Warning("Пожалуйста, введите запрос")
	c.Danger("boom")
	c.Info("") // empty messages are dropped

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	got := c.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain() returned %d items, want 2", len(got))
	}
	if got[0].Level != LevelWarning || got[1].Level != LevelDanger {
		t.Errorf("unexpected order/levels: %+v", got)
	}
	if c.Len() != 0 {
		t.Error("collector should be empty after Drain")
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Success("ignored")
	if c.Drain() != nil || c.Len() != 0 {
		t.Error("nil collector should hold nothing")
	}
}

func TestIcon(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelSuccess, "check-circle"},
		{LevelWarning, "exclamation-triangle"},
		{LevelDanger, "times-circle"},
		{LevelInfo, "info-circle"},
	}
	for _, tt := range tests {
		n := Notification{Level: tt.level}
		if n.Icon() != tt.want {
			t.Errorf("Icon(%s) = %q, want %q", tt.level, n.Icon(), tt.want)
		}
	}
	if (Notification{}).DismissMillis() != 5000 {
		t.Error("toasts should dismiss after 5000ms")
	}
}
