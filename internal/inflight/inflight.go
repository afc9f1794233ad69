// Package inflight allows at most one pending question per session.
package inflight

import (
	"sync"
	"time"
)

// Token identifies one admitted request.
type Token struct {
	session string
	id      uint64
}

// Session returns the session the token was issued for.
func (t Token) Session() string { return t.session }

// Tracker hands out one token per session at a time. A token is released
// by Finish or, as a fallback, by a timer after releaseAfter. Either path
// only releases the token it was given, so a late release can never free a
// newer request.
type Tracker struct {
	releaseAfter time.Duration

	mu     sync.Mutex
	next   uint64
	active map[string]uint64
}

// New creates a tracker. A non-positive releaseAfter disables the fallback
// timer.
func New(releaseAfter time.Duration) *Tracker {
	return &Tracker{releaseAfter: releaseAfter, active: make(map[string]uint64)}
}

// Begin admits a request for session. It returns false when another
// request of the same session is still pending.
func (t *Tracker) Begin(session string) (Token, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[session]; busy {
		return Token{}, false
	}
	t.next++
	tok := Token{session: session, id: t.next}
	t.active[session] = tok.id

	if t.releaseAfter > 0 {
		time.AfterFunc(t.releaseAfter, func() { t.Finish(tok) })
	}
	return tok, true
}

// Finish releases tok. It reports whether tok was still the active token.
func (t *Tracker) Finish(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.active[tok.session]; !ok || id != tok.id {
		return false
	}
	delete(t.active, tok.session)
	return true
}

// Busy reports whether session has a pending request.
func (t *Tracker) Busy(session string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[session]
	return ok
}
