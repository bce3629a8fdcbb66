package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/prompt"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/report"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
)

type EditCmd struct {
	api      ui.API
	roster   domain.Roster
	location *time.Location
	newID    ui.StepIDGenerator
	fresh    bool
}

// NewEditCmd opens the editor. A nil newID uses random step ids.
func NewEditCmd(api ui.API, roster domain.Roster, loc *time.Location, newID ui.StepIDGenerator) *cobra.Command {
	ec := &EditCmd{api: api, roster: roster, location: loc, newID: newID}
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a workflow interactively",
		Long: "Edit the workflow with the given id. Without an id the most recent " +
			"workflow is opened, or a default one when there are none.",
		Args: cobra.MaximumNArgs(1),
		RunE: ec.run,
	}

	cmd.Flags().BoolVar(&ec.fresh, "new", false, "Start a new workflow")

	return cmd
}

func (ec *EditCmd) run(cmd *cobra.Command, args []string) error {
	if ec.fresh && len(args) > 0 {
		return errors.New("--new cannot be combined with an id")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := prompt.NewPrompter(cmd.InOrStdin(), out, false)
	reporter := report.NewReporter(out, ec.location)
	editor := ui.NewEditorController(ec.api, prompter, ec.roster, ec.newID)

	if ec.fresh {
		editor.LoadDefault()
	} else {
		var id string
		if len(args) > 0 {
			id = args[0]
		}
		if err := editor.Load(ctx, id); err != nil {
			fmt.Fprintf(out, "Could not load workflow (%v), starting from the default workflow\n", err)
		}
	}

	// opened without an id, a save returns to the list
	s := &editSession{
		editor:      editor,
		prompter:    prompter,
		reporter:    reporter,
		out:         out,
		leaveOnSave: len(args) == 0,
	}
	if err := s.run(ctx); err != nil {
		return err
	}

	if !s.saved || !s.leaveOnSave {
		return nil
	}
	list := ui.NewListController(ec.api, prompter)
	if err := list.Load(ctx); err != nil {
		return fmt.Errorf("failed to load workflows: %w", err)
	}
	return reporter.List(list.Workflows())
}
