// Package cli holds the cobra command tree for the todo binary.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/logging"
)

// RunFunc runs a command against a loaded configuration
type RunFunc func(ctx context.Context, cfg *config.Config) error

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	serve  RunFunc
	ping   RunFunc
	errors *ErrorHandler
}

// NewRootCommand creates the root command wired to the real server and store
func NewRootCommand() *RootCommand {
	return newRootCommand(Serve, Ping)
}

func newRootCommand(serve, ping RunFunc) *RootCommand {
	root := &RootCommand{
		serve:  serve,
		ping:   ping,
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A minimal task-list web service",
		Long: `todo serves a task list over HTTP as HTML fragments and JSON.

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

    DATABASE_URL                           Store URL, postgres://... or sqlite:path (required)
    TODO_DB_QUERY_TIMEOUT                  Read timeout (default: 10s)
    TODO_DB_WRITE_TIMEOUT                  Write timeout (default: 5s)
    TODO_DB_MAX_CONNS                      Postgres pool size (default: 10)
    TODO_DB_MIN_CONNS                      Postgres idle connections (default: 5)
    TODO_HTTP_ADDR                         Listen address (default: 127.0.0.1:42069)
    TODO_HTTP_SHUTDOWN_TIMEOUT             Graceful shutdown limit (default: 10s)
    TODO_VALIDATION_CONTENT_MAX            Max task content length (default: 1000)
    TODO_DEBUG                             Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the command tree with ctx
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args for the command tree
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("database-url", "", "Store URL (overrides DATABASE_URL)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TODO_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TODO_DB_WRITE_TIMEOUT)")
	flags.Bool("debug", false, "Enable debug logging (overrides TODO_DEBUG)")
}

func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Open the store, apply any pending schema migrations and serve HTTP
until interrupted. SIGINT and SIGTERM drain in-flight requests first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := r.serve(cmd.Context(), cfg); err != nil {
				return r.errors.Handle("serve", err)
			}
			return nil
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides TODO_HTTP_ADDR)")

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.QueryTimeout)
			defer cancel()
			if err := r.ping(ctx, cfg); err != nil {
				return r.errors.Handle("reach store", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	r.cmd.AddCommand(serveCmd, pingCmd)
}

// loadConfig builds the configuration from defaults, environment and the
// flags the user actually set.
func (r *RootCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadWithOverrides(overridesFromFlags(cmd))
	if err != nil {
		return nil, r.errors.Handle("load configuration", err)
	}
	logging.SetDebug(cfg.Application.Debug)
	return cfg, nil
}

func overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}
	flags := cmd.Flags()

	if flags.Changed("database-url") {
		url, _ := flags.GetString("database-url")
		overrides.DatabaseURL = &url
	}
	if flags.Changed("db-query-timeout") {
		timeout, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = durationPtr(timeout)
	}
	if flags.Changed("db-write-timeout") {
		timeout, _ := flags.GetDuration("db-write-timeout")
		overrides.DBWriteTimeout = durationPtr(timeout)
	}
	if flags.Changed("addr") {
		addr, _ := flags.GetString("addr")
		overrides.Addr = &addr
	}
	if flags.Changed("debug") {
		debug, _ := flags.GetBool("debug")
		overrides.Debug = &debug
	}

	return overrides
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
