package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/de-tools/workflow-builder/pkg/export"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/commands"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	API ui.API
	// Exporter defaults to stdout, files and S3.
	Exporter commands.Exporter
	Roster   domain.Roster
	// Location is the zone dates are shown in, local time when nil.
	Location *time.Location
	// StepIDs generates ids for new steps, random when nil.
	StepIDs ui.StepIDGenerator
	Input   io.Reader
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewExporter(opts.Output, nil)
	}
	if len(opts.Roster) == 0 {
		opts.Roster = domain.DefaultRoster
	}

	cli := &CLI{}
	cli.rootCmd = newRootCmd(opts)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workflows",
		Short:         "Browse and edit workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(opts.Input)
	cmd.SetOut(opts.Output)

	cmd.AddCommand(commands.NewListCmd(opts.API, opts.Location))
	cmd.AddCommand(commands.NewShowCmd(opts.API, opts.Location))
	cmd.AddCommand(commands.NewDeleteCmd(opts.API))
	cmd.AddCommand(commands.NewEditCmd(opts.API, opts.Roster, opts.Location, opts.StepIDs))
	cmd.AddCommand(commands.NewExportCmd(opts.API, opts.Exporter))

	return cmd
}
