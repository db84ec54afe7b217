// Package commands implements the CLI commands for rewatch.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/build"
)

// CLI represents the command line interface for rewatch.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Watch(ctx context.Context, opts app.RunOptions) error
	Build(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "rewatch",
		Short:         "Rebuild a project whenever its inputs change",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), runOptions(cmd))
		},
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

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to rewatch.yaml or the directory to search from")
	flags.StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	flags.Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	flags.Bool("no-version-check", false, "Do not check for a newer release")
	flags.Duration("debounce", 0, "Quiet period after the last change before rebuilding (overrides the config)")
	flags.Bool("log-json", false, "Write log records as JSON")
	flags.Bool("trace", false, "Log a line for every finished build span")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// runOptions collects the persistent flags.
func runOptions(cmd *cobra.Command) app.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	outputMode, _ := flags.GetString("output-mode")
	ci, _ := flags.GetBool("ci")
	noVersionCheck, _ := flags.GetBool("no-version-check")
	debounce, _ := flags.GetDuration("debounce")
	logJSON, _ := flags.GetBool("log-json")
	trace, _ := flags.GetBool("trace")

	if ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		ConfigPath:     configPath,
		OutputMode:     outputMode,
		Debounce:       debounce,
		NoVersionCheck: noVersionCheck,
		LogJSON:        logJSON,
		Trace:          trace,
	}
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
