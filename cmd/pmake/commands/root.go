// Package commands implements the CLI commands for the pmake build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.trai.ch/pmake/internal/app"
	"go.trai.ch/pmake/internal/build"
	"go.trai.ch/pmake/internal/core/domain"
)

// CLI represents the command line interface for pmake.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	load    app.LoadOptions
	logJSON bool
	verbose bool
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts app.RunOptions) error
	Graph(ctx context.Context, w io.Writer, targetNames []string, opts app.LoadOptions) error
	Rules(w io.Writer, opts app.LoadOptions) error
	ConfigureLogging(opts app.LogOptions)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pmake",
		Short:         "An incremental build engine with regex pattern rules",
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

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.load.File, "file", "f", domain.DefaultRuleFile, "Read rules from `FILE`")
	flags.StringVarP(&c.load.Directory, "directory", "C", "", "Change to `DIR` before doing anything")
	flags.StringVar(&c.load.Policy, "policy", "", "Override the rule match policy: last-wins or reject-ambiguous")
	flags.BoolVar(&c.logJSON, "log-json", false, "Write logs as JSON")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		c.app.ConfigureLogging(app.LogOptions{JSON: c.logJSON, Verbose: c.verbose})
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newRulesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
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
