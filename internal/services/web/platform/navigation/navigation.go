// Package navigation tracks the recent page loads of each visitor so resolve
// streams started for a page that is no longer open can be discarded.
//
// A visitor may keep several pages open in separate tabs, so a page load
// stays live until LiveNavigations newer loads have started. A page left in
// the same tab is caught earlier: the browser aborts its resolve stream and
// the request context ends.
package navigation

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "agora_nav"
	visitorKey    = "visitor"
	visitorTTL    = 24 * time.Hour
	pruneAtLength = 10000
)

// LiveNavigations is how many of a visitor's most recent page loads accept
// resolve streams.
const LiveNavigations = 8

// Tracker issues a navigation generation per full page load. Generations
// live in memory keyed by a visitor id kept in a cookie session.
type Tracker struct {
	store sessions.Store
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]visit
}

type visit struct {
	// generations holds the live page loads, oldest first.
	generations []string
	seen        time.Time
}

// NewTracker builds a tracker over a session store.
func NewTracker(store sessions.Store) *Tracker {
	return &Tracker{store: store, now: time.Now, visitors: make(map[string]visit)}
}

// NewCookieTracker builds a tracker over a signed cookie store.
func NewCookieTracker(secret []byte, secure bool) *Tracker {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(visitorTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return NewTracker(store)
}

// Begin starts a new navigation and returns its generation. first reports
// whether the visitor had no navigation before this one.
func (t *Tracker) Begin(w http.ResponseWriter, r *http.Request) (generation string, first bool, err error) {
	// A session that fails to decode is replaced by a fresh one.
	session, _ := t.store.Get(r, sessionName)
	visitor, _ := session.Values[visitorKey].(string)
	if visitor == "" {
		visitor = uuid.NewString()
		session.Values[visitorKey] = visitor
	}
	generation = uuid.NewString()

	t.mu.Lock()
	v, known := t.visitors[visitor]
	v.generations = append(v.generations, generation)
	if n := len(v.generations); n > LiveNavigations {
		v.generations = append([]string(nil), v.generations[n-LiveNavigations:]...)
	}
	v.seen = t.now()
	t.visitors[visitor] = v
	if len(t.visitors) > pruneAtLength {
		t.pruneLocked()
	}
	t.mu.Unlock()

	return generation, !known, session.Save(r, w)
}

// IsLive reports whether generation is one of the visitor's recent page
// loads. Unknown visitors and blank generations count as live.
func (t *Tracker) IsLive(r *http.Request, generation string) bool {
	generation = strings.TrimSpace(generation)
	if generation == "" {
		return true
	}
	visitor := t.visitor(r)
	if visitor == "" {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.visitors[visitor]
	if !ok {
		return true
	}
	return slices.Contains(v.generations, generation)
}

// Forget drops the visitor's navigation state and expires its cookie.
func (t *Tracker) Forget(w http.ResponseWriter, r *http.Request) error {
	session, _ := t.store.Get(r, sessionName)
	if visitor, _ := session.Values[visitorKey].(string); visitor != "" {
		t.mu.Lock()
		delete(t.visitors, visitor)
		t.mu.Unlock()
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func (t *Tracker) visitor(r *http.Request) string {
	session, err := t.store.Get(r, sessionName)
	if err != nil || session == nil {
		return ""
	}
	visitor, _ := session.Values[visitorKey].(string)
	return visitor
}

func (t *Tracker) pruneLocked() {
	cutoff := t.now().Add(-visitorTTL)
	for visitor, v := range t.visitors {
		if v.seen.Before(cutoff) {
			delete(t.visitors, visitor)
		}
	}
}
