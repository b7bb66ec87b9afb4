// Package views holds the screens of the client. Each view declares what
// access it needs, asks the guard before doing anything, and returns plain
// data for the CLI to render.
package views

import (
	"context"
	"errors"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/services/session"
)

// Errors
var (
	ErrCannotSubmit       = errors.New("reservation cannot be submitted")
	ErrCourtNameRequired  = errors.New("court name is required")
	ErrCredentialsMissing = errors.New("email and password are required")
	// ErrReloadFailed means the action succeeded but the page could not be
	// refreshed afterwards
	ErrReloadFailed = errors.New("failed to reload page")
)

// Sessions is the session store as the views use it
type Sessions interface {
	Current() session.Session
	Login(ctx context.Context, email, password string, role model.Role) (session.Session, error)
	Register(ctx context.Context, name, email, password string, role model.Role) (session.Session, error)
	Logout(ctx context.Context) error
}

// Deps are the collaborators shared by all views
type Deps struct {
	Gateway  gateway.Gateway
	Sessions Sessions
	Guard    *guard.Guard
}

// View is implemented by every screen
type View interface {
	Path() string
	Requirement() guard.Requirement
}

// settle discards a result whose requester has gone away. Once ctx is done
// nothing fetched under it may be applied.
func settle[T any](ctx context.Context, v T, err error) (T, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, ctxErr
	}
	return v, err
}
