package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/views"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			role := model.RoleUser
			if admin {
				role = model.RoleAdmin
			}

			sess, next, err := views.NewLogin(a.views()).Submit(cmd.Context(), email, password, role)
			if err != nil {
				return err
			}

			a.out.Print(newSessionInfo(sess, next))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Log in as an administrator")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRole(role)
			if err != nil {
				return err
			}

			sess, next, err := views.NewRegister(a.views()).Submit(cmd.Context(), name, email, password, r)
			if err != nil {
				return err
			}

			a.out.Print(newSessionInfo(sess, next))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUser), "Account role: user, admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := views.Logout(cmd.Context(), a.views()); err != nil {
				return err
			}
			a.out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Print(newSessionInfo(a.wired.Sessions.Current(), ""))
			return nil
		},
	}
}
