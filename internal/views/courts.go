package views

import (
	"context"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/guard"
)

// Paths of the non-guard views
const (
	CourtsPath     = "/courts"
	BookingPath    = "/book"
	MyBookingsPath = "/my-bookings"
	RegisterPath   = "/register"
	LogoutPath     = "/logout"
)

// Courts lists every court
type Courts struct {
	deps Deps
}

// NewCourts creates the courts view
func NewCourts(deps Deps) *Courts {
	return &Courts{deps: deps}
}

func (v *Courts) Path() string                   { return CourtsPath }
func (v *Courts) Requirement() guard.Requirement { return guard.RequireNone }

// Load fetches the courts
func (v *Courts) Load(ctx context.Context) ([]model.Court, error) {
	if err := v.deps.Guard.Require(v.Requirement()); err != nil {
		return nil, err
	}
	courts, err := v.deps.Gateway.FetchCourts(ctx)
	return settle(ctx, courts, err)
}
