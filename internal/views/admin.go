package views

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/booking"
	"github.com/mcoot/courtbook/internal/services/guard"
)

// AdminPage is the admin dashboard
type AdminPage struct {
	Courts       []model.Court       `json:"courts"`
	Reservations []model.Reservation `json:"reservations"`
	Summary      booking.Summary     `json:"summary"`
}

// Admin lets administrators manage courts and see every reservation
type Admin struct {
	deps Deps
}

// NewAdmin creates the admin view
func NewAdmin(deps Deps) *Admin {
	return &Admin{deps: deps}
}

func (v *Admin) Path() string                   { return guard.AdminPath }
func (v *Admin) Requirement() guard.Requirement { return guard.RequireAdmin }

// Load fetches courts and all reservations in parallel
func (v *Admin) Load(ctx context.Context) (AdminPage, error) {
	if err := v.deps.Guard.Require(v.Requirement()); err != nil {
		return AdminPage{}, err
	}

	var page AdminPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courts, err := v.deps.Gateway.FetchCourts(gctx)
		page.Courts = courts
		return err
	})
	g.Go(func() error {
		reservations, err := v.deps.Gateway.FetchAllReservations(gctx)
		page.Reservations = reservations
		return err
	})

	err := g.Wait()
	page, err = settle(ctx, page, err)
	if err != nil {
		return AdminPage{}, err
	}

	page.Reservations = booking.Annotate(page.Reservations)
	page.Summary = booking.Summarize(page.Reservations)
	return page, nil
}

// ProvisionCourt creates a court and returns the reloaded dashboard. If the
// court was created but the reload fails, the court is still returned along
// with an error wrapping ErrReloadFailed.
func (v *Admin) ProvisionCourt(ctx context.Context, name, location string, surface model.Surface) (model.Court, AdminPage, error) {
	if err := v.deps.Guard.Require(v.Requirement()); err != nil {
		return model.Court{}, AdminPage{}, err
	}
	if strings.TrimSpace(name) == "" {
		return model.Court{}, AdminPage{}, ErrCourtNameRequired
	}

	court, err := v.deps.Gateway.ProvisionCourt(ctx, name, location, surface)
	court, err = settle(ctx, court, err)
	if err != nil {
		return model.Court{}, AdminPage{}, err
	}

	page, err := v.Load(ctx)
	if err != nil {
		return court, AdminPage{}, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return court, page, nil
}
