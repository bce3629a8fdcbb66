package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/prompt"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/report"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

type ListCmd struct {
	api      ui.API
	location *time.Location
}

func NewListCmd(api ui.API, loc *time.Location) *cobra.Command {
	lc := &ListCmd{api: api, location: loc}
	return &cobra.Command{
		Use:   "list",
		Short: "List workflows, newest first",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}
}

func (lc *ListCmd) run(cmd *cobra.Command, _ []string) error {
	ctrl := ui.NewListController(lc.api, prompt.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), false))
	if err := ctrl.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load workflows: %w", err)
	}
	return report.NewReporter(cmd.OutOrStdout(), lc.location).List(ctrl.Workflows())
}
