package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

const (
	DefaultTitle       = "After discovery calls"
	DefaultInstruction = "At 8pm, pull all the Gong recordings from the rep's discovery calls that day. " +
		"Filter to only deals which have a next step set in Salesforce"

	msgTitleRequired        = "Please enter a workflow title"
	msgInstructionsRequired = "Please fill in all step instructions"
	msgSaved                = "Workflow saved successfully!"
	msgSaveFailed           = "Error saving workflow: "
)

var (
	ErrStepNotFound         = errors.New("step not found")
	ErrLastStep             = errors.New("a workflow needs at least one step")
	ErrTitleRequired        = errors.New(msgTitleRequired)
	ErrInstructionsRequired = errors.New(msgInstructionsRequired)
)

// EditorController holds the workflow being edited. An empty ID means the
// next Save creates a new workflow.
type EditorController struct {
	api      API
	notifier Notifier
	roster   domain.Roster
	newID    StepIDGenerator

	id     string
	title  string
	steps  []domain.Step
	saving bool
}

func NewEditorController(api API, notifier Notifier, roster domain.Roster, newID StepIDGenerator) *EditorController {
	if len(roster) == 0 {
		roster = domain.DefaultRoster
	}
	if newID == nil {
		newID = NewStepID
	}
	return &EditorController{
		api:      api,
		notifier: notifier,
		roster:   roster,
		newID:    newID,
	}
}

// Load opens the workflow with the given id. Without an id the most recent
// workflow is opened instead. Anything that cannot be loaded falls back to
// the default workflow; the returned error says why.
func (c *EditorController) Load(ctx context.Context, id string) error {
	if id != "" {
		wf, err := c.api.Get(ctx, id)
		if err != nil {
			c.LoadDefault()
			return fmt.Errorf("failed to load workflow %s: %w", id, err)
		}
		c.adopt(*wf)
		return nil
	}

	workflows, err := c.api.List(ctx)
	if err != nil {
		c.LoadDefault()
		return fmt.Errorf("failed to load workflows: %w", err)
	}
	if len(workflows) == 0 {
		c.LoadDefault()
		return nil
	}
	c.adopt(workflows[0])
	return nil
}

// LoadDefault starts a new, unsaved workflow with one AI step.
func (c *EditorController) LoadDefault() {
	c.id = ""
	c.title = DefaultTitle
	c.steps = []domain.Step{{
		ID:          c.newID(),
		Instruction: DefaultInstruction,
		Executor:    domain.ExecutorAI,
	}}
}

func (c *EditorController) adopt(wf domain.Workflow) {
	c.id = wf.ID
	c.title = wf.Title
	c.steps = make([]domain.Step, len(wf.Steps))
	copy(c.steps, wf.Steps)

	// steps need an id to be addressable while editing
	for i := range c.steps {
		if c.steps[i].ID == "" {
			c.steps[i].ID = c.newID()
		}
	}
}

func (c *EditorController) ID() string {
	return c.id
}

func (c *EditorController) Title() string {
	return c.title
}

func (c *EditorController) Steps() []domain.Step {
	out := make([]domain.Step, len(c.steps))
	copy(out, c.steps)
	return out
}

func (c *EditorController) Roster() domain.Roster {
	return c.roster
}

// Saving reports whether a save is in flight.
func (c *EditorController) Saving() bool {
	return c.saving
}

func (c *EditorController) SetTitle(title string) {
	c.title = title
}

// AddStep appends a blank AI step and returns its id.
func (c *EditorController) AddStep() domain.StepID {
	id := c.newID()
	c.steps = append(c.steps, domain.Step{ID: id, Executor: domain.ExecutorAI})
	return id
}

func (c *EditorController) SetInstruction(id domain.StepID, instruction string) error {
	i, err := c.index(id)
	if err != nil {
		return err
	}
	c.steps[i].Instruction = instruction
	return nil
}

// SetExecutor switches who performs a step. Switching to ai drops the
// assignee; switching to human assigns the first roster entry when nobody is
// assigned yet.
func (c *EditorController) SetExecutor(id domain.StepID, executor domain.Executor) error {
	if !executor.Valid() {
		return fmt.Errorf("unknown executor %q", executor)
	}
	i, err := c.index(id)
	if err != nil {
		return err
	}
	c.steps[i] = c.steps[i].WithExecutor(executor, c.roster.Default())
	return nil
}

func (c *EditorController) AssignHuman(id domain.StepID, name string) error {
	if !c.roster.Contains(name) {
		return fmt.Errorf("%q is not a known assignee", name)
	}
	i, err := c.index(id)
	if err != nil {
		return err
	}
	if c.steps[i].Executor != domain.ExecutorHuman {
		return fmt.Errorf("only human steps can be assigned")
	}
	c.steps[i].AssignedHuman = name
	return nil
}

// DeleteStep removes a step. The last remaining step cannot be deleted.
func (c *EditorController) DeleteStep(id domain.StepID) error {
	i, err := c.index(id)
	if err != nil {
		return err
	}
	if len(c.steps) <= 1 {
		return ErrLastStep
	}
	c.steps = append(c.steps[:i], c.steps[i+1:]...)
	return nil
}

// Save checks the title and instructions locally, then creates or updates
// the workflow. created is true when a new workflow was stored; its id is
// adopted so later saves update it. The outcome is also shown through the
// notifier.
func (c *EditorController) Save(ctx context.Context) (created bool, err error) {
	if strings.TrimSpace(c.title) == "" {
		c.notifier.Alert(msgTitleRequired)
		return false, ErrTitleRequired
	}
	for _, s := range c.steps {
		if strings.TrimSpace(s.Instruction) == "" {
			c.notifier.Alert(msgInstructionsRequired)
			return false, ErrInstructionsRequired
		}
	}

	c.saving = true
	defer func() { c.saving = false }()

	draft := domain.WorkflowDraft{Title: c.title, Steps: c.Steps()}
	if c.id == "" {
		id, err := c.api.Create(ctx, draft)
		if err != nil {
			c.notifier.Alert(msgSaveFailed + err.Error())
			return false, err
		}
		c.id = id
		created = true
	} else if err := c.api.Update(ctx, c.id, draft); err != nil {
		c.notifier.Alert(msgSaveFailed + err.Error())
		return false, err
	}

	c.notifier.Alert(msgSaved)
	return created, nil
}

func (c *EditorController) index(id domain.StepID) (int, error) {
	for i, s := range c.steps {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, ErrStepNotFound
}
