package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/courtbook/internal/views"
)

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the welcome screen and what you can do",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Print(views.NewHome(a.views()).Load())
			return nil
		},
	}
}

func newCourtsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "courts",
		Short: "List courts",
		RunE: func(cmd *cobra.Command, args []string) error {
			courts, err := views.NewCourts(a.views()).Load(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Print(courts)
			return nil
		},
	}
}
