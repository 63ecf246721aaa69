// Package commands implements the CLI commands for montauk.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/app"
	"go.trai.ch/montauk/internal/build"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/ui/output"
	"go.trai.ch/zerr"
)

// Log formats accepted by --log-format.
const (
	LogFormatAuto   = "auto"
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// CLI represents the command line interface for montauk.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	dir       string
	logFormat string
	trace     bool
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.Options)
	Compile(ctx context.Context, names []string, opts app.CompileOptions) ([]domain.TemplateRecord, error)
	Render(ctx context.Context, name string, tags map[string]string) (string, error)
	Dispatch(ctx context.Context, route string, tags map[string]string) (string, error)
	Watch(ctx context.Context, opts app.WatchOptions) error
	ShowCache(ctx context.Context) (string, error)
	ClearCache(ctx context.Context) (string, error)
	Dependencies(ctx context.Context, name string) (app.Dependencies, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "montauk",
		Short:         "A view templating engine for server-rendered HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.dir, "dir", "C", "", "Directory to look up montauk.yaml from")
	rootCmd.PersistentFlags().StringVar(&c.logFormat, "log-format", LogFormatAuto, "Log format: auto, pretty or json")
	rootCmd.PersistentFlags().BoolVar(&c.trace, "trace", false, "Log a line for every traced operation")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.configure(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newRenderCmd())
	rootCmd.AddCommand(c.newDispatchCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newDepsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configure(stdout, stderr io.Writer) error {
	var jsonLogs bool
	switch c.logFormat {
	case LogFormatAuto:
		jsonLogs = !output.IsTerminal(stderr)
	case LogFormatPretty:
	case LogFormatJSON:
		jsonLogs = true
	default:
		return zerr.With(zerr.New("invalid log format, expected 'auto', 'pretty' or 'json'"), "log_format", c.logFormat)
	}

	lipgloss.SetColorProfile(output.ColorProfile(stdout))
	c.app.Configure(app.Options{
		WorkDir: c.dir,
		JSON:    jsonLogs,
		Trace:   c.trace,
	})
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
