package views

import (
	"context"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/booking"
	"github.com/mcoot/courtbook/internal/services/guard"
)

// MyBookings shows the signed-in account's reservations
type MyBookings struct {
	deps Deps
}

// NewMyBookings creates the my-bookings view
func NewMyBookings(deps Deps) *MyBookings {
	return &MyBookings{deps: deps}
}

func (v *MyBookings) Path() string                   { return MyBookingsPath }
func (v *MyBookings) Requirement() guard.Requirement { return guard.RequireAuth }

// Load fetches own reservations with statuses derived from group size
func (v *MyBookings) Load(ctx context.Context) ([]model.Reservation, error) {
	if err := v.deps.Guard.Require(v.Requirement()); err != nil {
		return nil, err
	}

	reservations, err := v.deps.Gateway.FetchOwnReservations(ctx)
	reservations, err = settle(ctx, reservations, err)
	if err != nil {
		return nil, err
	}
	return booking.Annotate(reservations), nil
}
