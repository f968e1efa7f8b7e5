// Package session owns the client-side session lifecycle. The authenticated
// identity is serialized into a signed cookie under a single key, restored on
// every request, and discarded silently when the stored blob is corrupt.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/suhangowda96/dairyfarm/internal/domain"
)

const (
	cookieName = "dairyfarm-session"

	// userKey is the single durable slot holding the serialized session.
	userKey = "dairyFarmUser"
)

// Store is the single source of truth for who is logged in on a request.
// Set and Clear write through to the cookie in the same call, so the
// in-memory view and the durable copy never disagree.
type Store struct {
	cookies *sessions.CookieStore
}

func New(secret string, maxAge time.Duration, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Restore reads the persisted session from the request cookie. A missing,
// unreadable, or structurally invalid blob yields nil: corrupt state is a
// recovery path, not a user-facing error, so it is logged and dropped.
func (s *Store) Restore(r *http.Request) *domain.Session {
	cs, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// Bad signature or undecodable cookie. Get still returns a fresh
		// session, so the stale cookie is overwritten on the next Set.
		slog.Debug("Discarding unreadable session cookie", "error", err)
		return nil
	}

	raw, ok := cs.Values[userKey].(string)
	if !ok || raw == "" {
		return nil
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		slog.Warn("Discarding corrupt session blob", "error", err)
		return nil
	}
	if !sess.Valid() {
		slog.Warn("Discarding incomplete session blob")
		return nil
	}

	return &sess
}

// Set installs sess as the current session and persists it, overwriting any
// previous value.
func (s *Store) Set(r *http.Request, w http.ResponseWriter, sess *domain.Session) error {
	cs, _ := s.cookies.Get(r, cookieName)

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	cs.Values[userKey] = string(raw)
	return cs.Save(r, w)
}

// Clear removes the current session and deletes the durable copy.
func (s *Store) Clear(r *http.Request, w http.ResponseWriter) error {
	cs, _ := s.cookies.Get(r, cookieName)
	delete(cs.Values, userKey)
	cs.Options.MaxAge = -1
	return cs.Save(r, w)
}
