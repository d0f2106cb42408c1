package web

// sessions.go keeps one workflow per browser.
//
// A browser is identified by the cleanmind_session cookie. Each id maps to
// its own session identifiers, notification channel, board and orchestrator,
// held in an in-memory cache with a sliding TTL. Nothing outlives the
// process.

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/session"
	"github.com/JonMunkholm/cleanmind/internal/view"
	"github.com/JonMunkholm/cleanmind/internal/workflow"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "cleanmind_session"

// browserSession is everything one browser's workflow needs.
type browserSession struct {
	id      string
	state   *session.State
	notices *notify.Channel
	board   *view.Board
	orch    *workflow.Orchestrator
}

func (b *browserSession) close() {
	b.notices.Close()
}

// Sessions is the registry of browser sessions.
type Sessions struct {
	cache *cache.Cache
	ttl   time.Duration
	build func() *browserSession
}

// NewSessions creates a registry whose entries expire after ttl without use.
// build wires a fresh session.
func NewSessions(ttl, cleanupInterval time.Duration, build func() *browserSession) *Sessions {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, v any) {
		if s, ok := v.(*browserSession); ok {
			s.close()
		}
	})
	return &Sessions{cache: c, ttl: ttl, build: build}
}

// Get returns the session with id and extends its lifetime.
func (s *Sessions) Get(id string) (*browserSession, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := x.(*browserSession)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

// Resolve returns the session named by the request cookie, creating one when
// there is none or it has expired. The cookie is re-issued on every call so
// its lifetime slides along with the session's.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) *browserSession {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.Get(c.Value); ok {
			s.setCookie(w, r, sess.id)
			return sess
		}
	}

	sess := s.build()
	sess.id = uuid.NewString()
	s.cache.Set(sess.id, sess, cache.DefaultExpiration)
	s.setCookie(w, r, sess.id)
	return sess
}

func (s *Sessions) setCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Count returns the number of live sessions.
func (s *Sessions) Count() int {
	return s.cache.ItemCount()
}

// Wait blocks until no session has a run in flight or ctx is done.
func (s *Sessions) Wait(ctx context.Context) error {
	for _, item := range s.cache.Items() {
		sess := item.Object.(*browserSession)
		if err := sess.orch.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Running returns how many sessions have a run in flight.
func (s *Sessions) Running() int {
	n := 0
	for _, item := range s.cache.Items() {
		if item.Object.(*browserSession).orch.Running() {
			n++
		}
	}
	return n
}

// Close drops every session and ends its notification streams.
func (s *Sessions) Close() {
	items := s.cache.Items()
	s.cache.Flush()
	for _, item := range items {
		item.Object.(*browserSession).close()
	}
}
