// Package cli implements the blog command-line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"blog-client/internal/config"

	"github.com/spf13/cobra"
)

// AppFactory builds the client stack for a command invocation.
type AppFactory func(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*App, error)

// RootOptions holds global flags and the stack built for the running command.
type RootOptions struct {
	APIURL  string
	Format  string
	Verbose bool

	// NewApp overrides how the stack is built. Defaults to DefaultAppFactory.
	NewApp AppFactory

	app *App
}

// DefaultAppFactory loads configuration from the environment and opens the
// configured token store.
func DefaultAppFactory(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*App, error) {
	cfg := config.Load()
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return NewApp(ctx, cfg, cmd.ErrOrStderr())
}

// NewRootCommand creates the root command for the blog CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{})
}

// NewRootCommandWith creates the root command around opts.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	if opts.NewApp == nil {
		opts.NewApp = DefaultAppFactory
	}

	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Command-line client for the 4blogs platform",
		Long: `blog signs in to a 4blogs API, keeps the session fresh across runs
and lets you browse and react to articles from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be text or json", opts.Format))
			}
			if !needsApp(cmd) {
				return nil
			}
			app, err := opts.NewApp(cmd.Context(), opts, cmd)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to start client", err)
			}
			app.Start(cmd.Context())
			opts.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "API base URL (overrides API_URL)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewMineCommand(opts))
	cmd.AddCommand(NewPublishCommand(opts))
	cmd.AddCommand(NewReactionCommand(opts, "like"))
	cmd.AddCommand(NewReactionCommand(opts, "dislike"))
	cmd.AddCommand(NewBlockCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))

	return cmd
}

const annotationNoApp = "blog/no-app"

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" || c.Annotations[annotationNoApp] == "true" {
			return false
		}
	}
	return true
}

func (o *RootOptions) printer(cmd *cobra.Command) *Printer {
	return &Printer{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// App returns the stack built for the running command.
func (o *RootOptions) App() *App {
	return o.app
}

func (o *RootOptions) close() error {
	if o.app == nil {
		return nil
	}
	err := o.app.Close()
	o.app = nil
	return err
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommandWith(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	// Post-run hooks are skipped when a command fails; flush notices anyway.
	if cerr := opts.close(); err == nil {
		err = cerr
	}
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return GetExitCode(err)
}
