// Package guard decides whether a view may render for the current session.
package guard

import (
	"fmt"

	"github.com/mcoot/courtbook/internal/services/session"
)

// View paths the guard redirects to
const (
	HomePath  = "/"
	LoginPath = "/login"
	AdminPath = "/admin"
)

// Requirement is a view's static access requirement
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuth
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireAuth:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Requirement(%d)", int(r))
	}
}

// Decision is the outcome of an authorization check.
// RedirectTo is empty when Render is true.
type Decision struct {
	Render     bool
	RedirectTo string
}

// Authorize decides whether a view with the given requirement may render.
// It is a pure function of its inputs.
func Authorize(sess session.Session, req Requirement) Decision {
	switch req {
	case RequireNone:
		return Decision{Render: true}
	case RequireAuth:
		if sess.IsAuthenticated() {
			return Decision{Render: true}
		}
		return Decision{RedirectTo: LoginPath}
	case RequireAdmin:
		if sess.IsAdmin() {
			return Decision{Render: true}
		}
		if sess.IsAuthenticated() {
			return Decision{RedirectTo: HomePath}
		}
		return Decision{RedirectTo: LoginPath}
	default:
		// Unknown requirements fail closed
		return Decision{RedirectTo: LoginPath}
	}
}

// SessionSource yields the current session; the session store implements it
type SessionSource interface {
	Current() session.Session
}

// Guard evaluates requirements against a live session source. Nothing is
// cached: every Check reads the session again.
type Guard struct {
	sessions SessionSource
}

// New creates a guard over a session source
func New(sessions SessionSource) *Guard {
	return &Guard{sessions: sessions}
}

// Check authorizes against the session as it is right now
func (g *Guard) Check(req Requirement) Decision {
	return Authorize(g.sessions.Current(), req)
}

// Require returns a *RedirectError when the requirement is not met
func (g *Guard) Require(req Requirement) error {
	d := g.Check(req)
	if d.Render {
		return nil
	}
	return &RedirectError{Requirement: req, To: d.RedirectTo}
}

// RedirectError reports a view that may not render and where to go instead
type RedirectError struct {
	Requirement Requirement
	To          string
}

func (e *RedirectError) Error() string {
	if e.To == LoginPath {
		return "login required"
	}
	if e.Requirement == RequireAdmin {
		return "admin access required"
	}
	return fmt.Sprintf("not allowed here, go to %s", e.To)
}

// LandingPath is where a freshly signed-in session is sent
func LandingPath(sess session.Session) string {
	if sess.IsAdmin() {
		return AdminPath
	}
	return HomePath
}
