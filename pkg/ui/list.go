package ui

import (
	"context"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

// ListController backs the workflow overview.
type ListController struct {
	api      API
	notifier Notifier

	workflows []domain.Workflow
	deleting  string
}

func NewListController(api API, notifier Notifier) *ListController {
	return &ListController{
		api:      api,
		notifier: notifier,
	}
}

// Load replaces the list with the server's, in the order returned. On
// failure the list is left empty and the error returned.
func (c *ListController) Load(ctx context.Context) error {
	workflows, err := c.api.List(ctx)
	if err != nil {
		c.workflows = nil
		return err
	}
	c.workflows = workflows
	return nil
}

func (c *ListController) Workflows() []domain.Workflow {
	out := make([]domain.Workflow, len(c.workflows))
	copy(out, c.workflows)
	return out
}

// Deleting is the id whose delete is in flight, or "".
func (c *ListController) Deleting() string {
	return c.deleting
}

// Delete asks for confirmation and removes the workflow. The local list is
// pruned on success without refetching. It reports whether the workflow
// was deleted.
func (c *ListController) Delete(ctx context.Context, id string) bool {
	title := id
	for _, wf := range c.workflows {
		if wf.ID == id {
			title = wf.Title
			break
		}
	}

	if !c.notifier.Confirm(`Are you sure you want to delete "` + title + `"? This action cannot be undone.`) {
		return false
	}

	c.deleting = id
	defer func() { c.deleting = "" }()

	if err := c.api.Delete(ctx, id); err != nil {
		c.notifier.Alert("Error deleting workflow: " + err.Error())
		return false
	}

	kept := make([]domain.Workflow, 0, len(c.workflows))
	for _, wf := range c.workflows {
		if wf.ID != id {
			kept = append(kept, wf)
		}
	}
	c.workflows = kept
	return true
}
