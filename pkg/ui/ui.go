// Package ui holds front-end state for browsing and editing workflows,
// independent of how it is rendered.
package ui

import (
	"context"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/google/uuid"
)

// API is the part of the workflow HTTP API the controllers call.
type API interface {
	List(ctx context.Context) ([]domain.Workflow, error)
	Get(ctx context.Context, id string) (*domain.Workflow, error)
	Create(ctx context.Context, draft domain.WorkflowDraft) (string, error)
	Update(ctx context.Context, id string, draft domain.WorkflowDraft) error
	Delete(ctx context.Context, id string) error
}

// Notifier shows blocking messages to the user.
type Notifier interface {
	Alert(message string)
	Confirm(message string) bool
}

// StepIDGenerator returns a fresh step id on each call.
type StepIDGenerator func() domain.StepID

func NewStepID() domain.StepID {
	return domain.StepID(uuid.NewString())
}
