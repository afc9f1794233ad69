// Package notify collects transient toast messages raised while handling a
// single request.
package notify

import (
	"sync"
	"time"
)

// Level is the visual severity of a toast. Values match the CSS alert classes.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// DismissAfter is how long a toast stays on screen.
const DismissAfter = 5 * time.Second

// Notification is a single toast.
type Notification struct {
	Level   Level
	Message string
}

// Icon returns the icon name shown next to the message.
func (n Notification) Icon() string {
	switch n.Level {
	case LevelSuccess:
		return "check-circle"
	case LevelWarning:
		return "exclamation-triangle"
	case LevelDanger:
		return "times-circle"
	default:
		return "info-circle"
	}
}

// DismissMillis is the auto-dismiss delay in milliseconds.
func (n Notification) DismissMillis() int64 {
	return DismissAfter.Milliseconds()
}

// Sink receives notifications.
type Sink interface {
	Notify(level Level, message string)
}

// Collector is a request-scoped Sink. The zero value is ready to use and a
// nil *Collector discards everything.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// Notify records a toast.
func (c *Collector) Notify(level Level, message string) {
	if c == nil || message == "" {
		return
	}
	c.mu.Lock()
	c.items = append(c.items, Notification{Level: level, Message: message})
	c.mu.Unlock()
}

// Success, Info, Warning and Danger are shorthands for Notify.
func (c *Collector) Success(msg string) { c.Notify(LevelSuccess, msg) }
func (c *Collector) Info(msg string)    { c.Notify(LevelInfo, msg) }
func (c *Collector) Warning(msg string) { c.Notify(LevelWarning, msg) }
func (c *Collector) Danger(msg string)  { c.Notify(LevelDanger, msg) }

// Drain returns the collected toasts and empties the collector.
func (c *Collector) Drain() []Notification {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	return out
}

// Len reports how many toasts are waiting.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Discard is a Sink that drops every notification.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}
