// Package session binds an authenticated identity to a client across
// requests. The identity travels in a signed cookie; handlers work with an
// explicit per-request Session value rather than global state.
package session

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Session holds at most one identity, the authenticated username.
type Session struct {
	identity string
	modified bool
}

// New returns an empty session bound to nobody.
func New() *Session {
	return &Session{}
}

// Establish binds identity to the session.
func (s *Session) Establish(identity string) {
	s.identity = identity
	s.modified = true
}

// Current returns the bound identity, if any.
func (s *Session) Current() (string, bool) {
	return s.identity, s.identity != ""
}

// Clear removes the binding.
func (s *Session) Clear() {
	s.identity = ""
	s.modified = true
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.modified
}

// From returns the session the middleware attached to c. A request that
// did not pass through the middleware gets a fresh empty session.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(common.SessionContextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := New()
	c.Set(common.SessionContextKey, s)
	return s
}
