// Package session models the admin authentication state carried by one
// request: Anonymous or Authenticated with a bearer token.
package session

import "sync"

// CookieName is the cookie that persists the admin token in the browser.
const CookieName = "adminToken"

// State is the authentication state of a Session.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session holds the admin bearer token. The token is read immediately before
// each store call; a concurrent SignOut wins over an in-flight read.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New returns a Session that is Authenticated when token is non-empty.
func New(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token, or "" when Anonymous.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State reports the current state.
func (s *Session) State() State {
	if s.Token() == "" {
		return Anonymous
	}
	return Authenticated
}

// Authenticated is shorthand for State() == Authenticated.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// SignIn moves the session to Authenticated with token. It is a no-op on a
// nil session.
func (s *Session) SignIn(token string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// SignOut discards the token and moves the session to Anonymous. It is safe to
// call on a nil or already anonymous session.
func (s *Session) SignOut() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
