// Package status derives the capability mode shown in the page header.
package status

import (
	"context"
	"sync"
	"time"
)

// Mode is the combined capability of the page.
type Mode string

const (
	Full      Mode = "full"
	LocalOnly Mode = "local_only"
	ChatOnly  Mode = "chat_only"
	None      Mode = "none"
)

// Status is the mode together with its user-facing label and the two
// inputs it was computed from.
type Status struct {
	Mode             Mode
	Label            string
	BackendAvailable bool
	HasKey           bool
}

var labels = map[Mode]string{
	Full:      "Полный режим: поиск + чат",
	LocalOnly: "Только локальный поиск",
	ChatOnly:  "Только чат ИИ",
	None:      "ИИ недоступен",
}

// Compute maps backend availability and credential presence to a Status.
func Compute(backendAvailable, hasKey bool) Status {
	var m Mode
	switch {
	case backendAvailable && hasKey:
		m = Full
	case backendAvailable:
		m = LocalOnly
	case hasKey:
		m = ChatOnly
	default:
		m = None
	}
	return Status{Mode: m, Label: labels[m], BackendAvailable: backendAvailable, HasKey: hasKey}
}

// Label returns the user-facing label of m.
func (m Mode) Label() string {
	return labels[m]
}

// CanSearch reports whether the local backend can take questions.
func (s Status) CanSearch() bool { return s.BackendAvailable }

// CanChat reports whether chat questions can be sent.
func (s Status) CanChat() bool { return s.HasKey }

// Pinger checks backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober caches backend availability so page loads do not hammer the
// backend.
type Prober struct {
	pinger  Pinger
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu        sync.Mutex
	available bool
	checked   time.Time
}

// NewProber creates a prober that re-checks at most once per ttl, giving
// each check timeout to answer.
func NewProber(p Pinger, ttl, timeout time.Duration) *Prober {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Prober{pinger: p, ttl: ttl, timeout: timeout, now: time.Now}
}

// Available reports whether the backend answered its last probe.
func (p *Prober) Available(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checked.IsZero() && p.now().Sub(p.checked) < p.ttl {
		return p.available
	}

	// The result is shared by every caller for ttl, so one caller going
	// away must not record the backend as down.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	p.available = p.pinger.Ping(ctx) == nil
	p.checked = p.now()
	return p.available
}

// Invalidate forces the next Available call to probe again.
func (p *Prober) Invalidate() {
	p.mu.Lock()
	p.checked = time.Time{}
	p.mu.Unlock()
}
