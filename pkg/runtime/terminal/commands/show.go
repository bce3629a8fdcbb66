package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/report"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

type ShowCmd struct {
	api      ui.API
	location *time.Location
}

func NewShowCmd(api ui.API, loc *time.Location) *cobra.Command {
	sc := &ShowCmd{api: api, location: loc}
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a workflow with all of its steps",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}
}

func (sc *ShowCmd) run(cmd *cobra.Command, args []string) error {
	wf, err := sc.api.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch workflow %s: %w", args[0], err)
	}
	return report.NewReporter(cmd.OutOrStdout(), sc.location).Workflow(*wf)
}
