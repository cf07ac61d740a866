package client

import (
	"context"
	"sync"
)

// Session tracks who is currently authenticated. It replaces scattered
// globals with one explicit object owned by the Client, safe for
// concurrent use.
type Session struct {
	mu   sync.RWMutex
	user *User
}

func newSession() *Session {
	return &Session{}
}

func (s *Session) setUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Role returns the signed-in user's role, or empty when signed out.
func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Session) IsAdmin() bool {
	return s.Role() == RoleAdmin
}

// Hydrate restores the session after a restart with a single profile
// call. With a valid stored token pair the one request both identifies
// the user and, via the refreshing transport, renews expired credentials.
func (c *Client) Hydrate(ctx context.Context) (User, error) {
	pair, err := c.store.Load()
	if err != nil {
		return User{}, err
	}
	if !pair.Valid() {
		c.session.clear()
		return User{}, ErrSessionExpired
	}
	return c.Profile(ctx)
}
