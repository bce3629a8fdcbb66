package commands

import (
	"fmt"

	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	api      ui.API
	exporter Exporter
	dest     string
}

func NewExportCmd(api ui.API, exporter Exporter) *cobra.Command {
	ec := &ExportCmd{api: api, exporter: exporter}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all workflows as JSON",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}

	cmd.Flags().StringVarP(&ec.dest, "out", "o", "-", "Destination: - for stdout, a file path or s3://bucket/key")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	workflows, err := ec.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workflows: %w", err)
	}

	if err := ec.exporter.Export(ctx, workflows, ec.dest); err != nil {
		return fmt.Errorf("failed to export workflows: %w", err)
	}

	if ec.dest != "-" && ec.dest != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d workflow(s) to %s\n", len(workflows), ec.dest)
	}
	return nil
}
