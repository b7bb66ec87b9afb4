package views

import (
	"context"
	"fmt"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/booking"
	"github.com/mcoot/courtbook/internal/services/guard"
)

// DefaultGroupSize is the group size a new candidate starts with
const DefaultGroupSize = booking.MinGroupSize

// BookingPage is the reservation form with its live hints
type BookingPage struct {
	Courts        []model.Court           `json:"courts"`
	Candidate     model.Candidate         `json:"candidate"`
	Status        model.ReservationStatus `json:"status"`
	StatusMessage string                  `json:"status_message"`
	CanSubmit     bool                    `json:"can_submit"`
	// Blocked explains why CanSubmit is false
	Blocked string `json:"blocked,omitempty"`
}

// Booking composes and submits reservations. Anyone may view the form;
// submitting needs a session.
type Booking struct {
	deps Deps
}

// NewBooking creates the booking view
func NewBooking(deps Deps) *Booking {
	return &Booking{deps: deps}
}

func (v *Booking) Path() string                   { return BookingPath }
func (v *Booking) Requirement() guard.Requirement { return guard.RequireNone }

// Load fetches the courts and fills in defaults for the draft: the first
// court when none is chosen
func (v *Booking) Load(ctx context.Context, draft model.Candidate) (BookingPage, error) {
	if err := v.deps.Guard.Require(v.Requirement()); err != nil {
		return BookingPage{}, err
	}

	courts, err := v.deps.Gateway.FetchCourts(ctx)
	courts, err = settle(ctx, courts, err)
	if err != nil {
		return BookingPage{}, err
	}

	if draft.CourtID == "" && len(courts) > 0 {
		draft.CourtID = courts[0].ID
	}

	page := Preview(draft)
	page.Courts = courts
	return page, nil
}

// Preview evaluates a draft without any I/O
func Preview(c model.Candidate) BookingPage {
	page := BookingPage{
		Candidate:     c,
		Status:        booking.DeriveStatus(c.GroupSize),
		StatusMessage: booking.StatusMessage(c.GroupSize),
	}
	if err := booking.Validate(c); err != nil {
		page.Blocked = err.Error()
	} else {
		page.CanSubmit = true
	}
	return page
}

// Submit sends the candidate if it passes the gate. Unauthenticated callers
// are redirected to login; a failing gate never reaches the server.
func (v *Booking) Submit(ctx context.Context, c model.Candidate) (model.Reservation, error) {
	if err := v.deps.Guard.Require(guard.RequireAuth); err != nil {
		return model.Reservation{}, err
	}
	if err := booking.Validate(c); err != nil {
		return model.Reservation{}, fmt.Errorf("%w: %w", ErrCannotSubmit, err)
	}

	r, err := v.deps.Gateway.SubmitReservation(ctx, c)
	r, err = settle(ctx, r, err)
	if err != nil {
		return model.Reservation{}, err
	}
	return booking.Annotate([]model.Reservation{r})[0], nil
}
