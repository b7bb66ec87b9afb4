package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/views"
)

func newBookCmd(a *app) *cobra.Command {
	var c model.Candidate
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Reserve a court",
		Long: `Reserve a court for a group of 2 to 4 players.

A group of 2 or 3 is pending until 4 players join; a group of 4 is confirmed.
With no --court the first listed court is used. Use --dry-run to see how the
reservation would be evaluated without sending it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := views.NewBooking(a.views())

			page, err := view.Load(cmd.Context(), c)
			if err != nil {
				return err
			}
			if dryRun {
				a.out.Print(page)
				return nil
			}

			// Submit checks the session before the gate, so a guest is sent
			// to login whatever the candidate looks like
			r, err := view.Submit(cmd.Context(), page.Candidate)
			if errors.Is(err, views.ErrCannotSubmit) {
				a.out.Print(page)
			}
			if err != nil {
				return redirectHint(err)
			}
			a.out.Print(r)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.CourtID, "court", "", "Court ID (default: first court)")
	cmd.Flags().StringVar(&c.Date, "date", "", "Date, e.g. 2026-05-01 (required)")
	cmd.Flags().StringVar(&c.Time, "time", "", "Start time, e.g. 18:00 (required)")
	cmd.Flags().IntVar(&c.GroupSize, "group-size", views.DefaultGroupSize, "Number of players, 2 to 4")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "Notes for the reservation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate without submitting")

	return cmd
}

func newBookingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List your reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			reservations, err := views.NewMyBookings(a.views()).Load(cmd.Context())
			if err != nil {
				return redirectHint(err)
			}
			a.out.Print(reservations)
			return nil
		},
	}
}
