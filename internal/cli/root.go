package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/courtbook/internal/factory"
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/views"
)

// app is the state shared by the commands of one invocation
type app struct {
	cfg    *Config
	logger *slog.Logger
	out    *Output
	wired  *factory.App
}

func (a *app) views() views.Deps {
	return a.wired.Views()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	defaults := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "courtctl",
		Short: "Book courts from the command line",
		Long: `courtctl is a client for the court booking API.

Log in once and your session is kept between runs. Browse courts, compose
reservations with live feedback on group size, and manage courts as an admin.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.wired == nil {
				return nil
			}
			return a.wired.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", defaults.ConfigFile, "Config file (env: "+EnvConfig+")")
	flags.String("server", defaults.Server, "API base URL (env: "+EnvBaseURL+")")
	flags.String("state-dir", defaults.StateDir, "Directory for the saved session (env: "+EnvStateDir+")")
	flags.String("store", defaults.Store, "Session store: file, memory, redis (env: "+EnvStore+")")
	flags.String("redis-url", defaults.RedisURL, "Redis URL for the redis store (env: "+EnvRedisURL+")")
	flags.String("profile", defaults.Profile, "Session profile for the redis store (env: "+EnvProfile+")")
	flags.Duration("timeout", defaults.Timeout, "API request timeout")
	flags.StringP("output", "o", defaults.Output, "Output format: text, json")
	flags.BoolP("verbose", "v", defaults.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHomeCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newCourtsCmd(a))
	rootCmd.AddCommand(newBookCmd(a))
	rootCmd.AddCommand(newBookingsCmd(a))
	rootCmd.AddCommand(newAdminCmd(a))

	return rootCmd
}

// setup loads configuration, wires the application and restores the session
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	fcfg := cfg.FactoryConfig()
	fcfg.Logger = a.logger
	wired, err := factory.New(fcfg)
	if err != nil {
		return err
	}
	a.wired = wired

	sess := wired.Start(cmd.Context())
	a.logger.Debug("session restored",
		slog.Bool("authenticated", sess.IsAuthenticated()),
		slog.String("role", string(sess.Role())),
	)
	return nil
}

// redirectHint turns a guard redirect into an actionable error
func redirectHint(err error) error {
	var redirect *guard.RedirectError
	if !errors.As(err, &redirect) {
		return err
	}
	if redirect.To == guard.LoginPath {
		return fmt.Errorf("%w: run 'courtctl login' first", err)
	}
	return err
}

// Execute runs the root command
func Execute() {
	ctx := context.Background()
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		NewOutput(outputFormat(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr()).PrintError(err)
		os.Exit(1)
	}
}

func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.PersistentFlags().GetString("output")
	if err != nil {
		return "text"
	}
	return format
}
