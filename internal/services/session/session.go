package session

import "github.com/mcoot/courtbook/internal/model"

// Session is the client's current belief about who is logged in.
// The zero value is the empty (guest) session.
type Session struct {
	Identity   *model.Identity
	Credential model.Credential
}

// IsAuthenticated is derived from the identity on every call
func (s Session) IsAuthenticated() bool {
	return s.Identity != nil
}

// Role is the identity's role, or guest for an empty session
func (s Session) Role() model.Role {
	if s.Identity == nil || s.Identity.Role == "" {
		return model.RoleGuest
	}
	return s.Identity.Role
}

// IsAdmin reports whether the session holds an admin identity
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role() == model.RoleAdmin
}
