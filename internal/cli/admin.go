package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/views"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
	}

	cmd.AddCommand(newAdminDashboardCmd(a))
	cmd.AddCommand(newAdminBookingsCmd(a))
	cmd.AddCommand(newAdminAddCourtCmd(a))

	return cmd
}

func newAdminDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show all courts and reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := views.NewAdmin(a.views()).Load(cmd.Context())
			if err != nil {
				return redirectHint(err)
			}
			a.out.Print(page)
			return nil
		},
	}
}

func newAdminBookingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List every reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := views.NewAdmin(a.views()).Load(cmd.Context())
			if err != nil {
				return redirectHint(err)
			}
			a.out.Print(page.Reservations)
			return nil
		},
	}
}

func newAdminAddCourtCmd(a *app) *cobra.Command {
	var name, location, surface string

	cmd := &cobra.Command{
		Use:   "add-court",
		Short: "Create a court",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := model.ParseSurface(surface)
			if err != nil {
				return err
			}

			court, _, err := views.NewAdmin(a.views()).ProvisionCourt(cmd.Context(), name, location, s)
			if errors.Is(err, views.ErrReloadFailed) {
				// The court exists; a retry would create a second one
				a.logger.Warn("court created", slog.String("id", court.ID), slog.String("error", err.Error()))
			} else if err != nil {
				return redirectHint(err)
			}
			a.out.Print(court)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Court name (required)")
	cmd.Flags().StringVar(&location, "location", "", "Where the court is")
	cmd.Flags().StringVar(&surface, "surface", string(model.SurfaceHard), "Surface: hard, clay, grass")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
