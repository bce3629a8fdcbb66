package domain

import (
	"errors"
	"time"
)

type Executor string

const (
	ExecutorAI    Executor = "ai"
	ExecutorHuman Executor = "human"
)

func (e Executor) Valid() bool {
	return e == ExecutorAI || e == ExecutorHuman
}

var ErrWorkflowNotFound = errors.New("workflow not found")

type StepID string

type Step struct {
	ID            StepID
	Instruction   string
	Executor      Executor
	AssignedHuman string
}

// WithExecutor switches the executor of a step. Moving to ai drops the
// assignee; moving to human keeps an existing assignee or falls back to
// defaultHuman.
func (s Step) WithExecutor(executor Executor, defaultHuman string) Step {
	s.Executor = executor
	switch executor {
	case ExecutorAI:
		s.AssignedHuman = ""
	case ExecutorHuman:
		if s.AssignedHuman == "" {
			s.AssignedHuman = defaultHuman
		}
	}
	return s
}

type Workflow struct {
	ID        string
	Title     string
	Steps     []Step
	CreatedAt *time.Time
	UpdatedAt *time.Time
	IsRunning *bool
}

// WorkflowDraft is the editable part of a workflow, used for create and update.
type WorkflowDraft struct {
	Title string
	Steps []Step
}

func (w Workflow) Draft() WorkflowDraft {
	steps := make([]Step, len(w.Steps))
	copy(steps, w.Steps)
	return WorkflowDraft{Title: w.Title, Steps: steps}
}
