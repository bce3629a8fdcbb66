package commands

import (
	"errors"
	"fmt"

	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/prompt"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

var errDeleteFailed = errors.New("workflow was not deleted")

type DeleteCmd struct {
	api       ui.API
	assumeYes bool
}

func NewDeleteCmd(api ui.API) *cobra.Command {
	dc := &DeleteCmd{api: api}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workflow after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE:  dc.run,
	}

	cmd.Flags().BoolVarP(&dc.assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

func (dc *DeleteCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	notifier := &confirmTracker{Prompter: prompt.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), dc.assumeYes)}

	// the list only supplies the title for the confirmation; the id stands in
	// when it cannot be loaded
	ctrl := ui.NewListController(dc.api, notifier)
	if !dc.assumeYes {
		if err := ctrl.Load(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not load workflow titles: %v\n", err)
		}
	}

	if ctrl.Delete(ctx, args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted workflow %s\n", args[0])
		return nil
	}
	if notifier.confirmed {
		return errDeleteFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	return nil
}

// confirmTracker tells a declined confirmation apart from a failed delete.
type confirmTracker struct {
	*prompt.Prompter
	confirmed bool
}

func (c *confirmTracker) Confirm(message string) bool {
	c.confirmed = c.Prompter.Confirm(message)
	return c.confirmed
}
