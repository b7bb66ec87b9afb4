package views

import (
	"context"
	"strings"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/services/session"
)

// Login signs in a user or admin
type Login struct {
	deps Deps
}

// NewLogin creates the login view
func NewLogin(deps Deps) *Login {
	return &Login{deps: deps}
}

func (v *Login) Path() string                   { return guard.LoginPath }
func (v *Login) Requirement() guard.Requirement { return guard.RequireNone }

// Submit logs in and returns the session and the path to continue to
func (v *Login) Submit(ctx context.Context, email, password string, role model.Role) (session.Session, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return session.Session{}, "", ErrCredentialsMissing
	}

	sess, err := v.deps.Sessions.Login(ctx, email, password, role)
	if err != nil {
		return sess, "", err
	}
	return sess, guard.LandingPath(sess), nil
}

// Register creates an account
type Register struct {
	deps Deps
}

// NewRegister creates the registration view
func NewRegister(deps Deps) *Register {
	return &Register{deps: deps}
}

func (v *Register) Path() string                   { return RegisterPath }
func (v *Register) Requirement() guard.Requirement { return guard.RequireNone }

// Submit registers and signs in. New accounts always land on home.
func (v *Register) Submit(ctx context.Context, name, email, password string, role model.Role) (session.Session, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return session.Session{}, "", ErrCredentialsMissing
	}

	sess, err := v.deps.Sessions.Register(ctx, name, email, password, role)
	if err != nil {
		return sess, "", err
	}
	return sess, guard.HomePath, nil
}

// Logout ends the session. Always allowed, always lands on home.
func Logout(ctx context.Context, deps Deps) (string, error) {
	if err := deps.Sessions.Logout(ctx); err != nil {
		return "", err
	}
	return guard.HomePath, nil
}
