// Package commands implements the CLI commands for frameconv.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/app"
	"go.trai.ch/frameconv/internal/build"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
)

// CLI represents the command line interface for frameconv.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	socket  string
}

// Application represents the application logic interface.
type Application interface {
	SetLogFormat(flag string)
	Serve(ctx context.Context, opts app.ServeOptions) error
	Resolve(dir string, path domain.Path) (*ports.Lookup, error)
	Lookup(ctx context.Context, socket string, path domain.Path) (*ports.Lookup, error)
	Publish(ctx context.Context, socket, topic string, tfs []domain.Transformation) (int, error)
	PublishFailure(ctx context.Context, socket string, source domain.DynamicSource, id int64) error
	Watch(ctx context.Context, socket string, path domain.Path, emit func(domain.Transformation) error) error
	Calibrations(ctx context.Context, socket string, ids []int64) ([]domain.Calibration, error)
	Status(ctx context.Context, socket string) (*domain.Status, error)
	Top(ctx context.Context, socket string, in io.Reader, out io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "frameconv",
		Short:         "Keeps coordinate frame conversions up to date",
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

	rootCmd.PersistentFlags().StringVar(&c.socket, "socket", domain.DefaultSocketPath(), "Path of the service socket")

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newLookupCmd())
	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newPublishCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCalibrationCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newTopCmd())
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
