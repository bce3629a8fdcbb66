package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/api"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/models/store"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

func ParseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	return &t, nil
}

func MapStoreWorkflowToDomain(w *store.Workflow) *domain.Workflow {
	if w == nil {
		return nil
	}

	return &domain.Workflow{
		ID:        w.ID,
		Title:     w.Title,
		Steps:     MapStoreStepsToDomain(w.Steps),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		IsRunning: w.IsRunning,
	}
}

func MapStoreStepsToDomain(steps []store.Step) []domain.Step {
	if steps == nil {
		return nil
	}
	out := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, domain.Step{
			ID:            domain.StepID(s.ID),
			Instruction:   s.Instruction,
			Executor:      domain.Executor(s.Executor),
			AssignedHuman: s.AssignedHuman,
		})
	}
	return out
}

func MapDomainStepsToStore(steps []domain.Step) []store.Step {
	out := make([]store.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, store.Step{
			ID:            string(s.ID),
			Instruction:   s.Instruction,
			Executor:      string(s.Executor),
			AssignedHuman: s.AssignedHuman,
		})
	}
	return out
}

func MapDomainWorkflowToAPI(w domain.Workflow) api.Workflow {
	return api.Workflow{
		ID:        w.ID,
		Title:     w.Title,
		Steps:     MapDomainStepsToAPI(w.Steps),
		CreatedAt: FormatTimestamp(w.CreatedAt),
		UpdatedAt: FormatTimestamp(w.UpdatedAt),
		IsRunning: w.IsRunning,
	}
}

func MapAPIWorkflowToDomain(w api.Workflow) (domain.Workflow, error) {
	createdAt, err := ParseTimestamp(w.CreatedAt)
	if err != nil {
		return domain.Workflow{}, err
	}
	updatedAt, err := ParseTimestamp(w.UpdatedAt)
	if err != nil {
		return domain.Workflow{}, err
	}

	return domain.Workflow{
		ID:        w.ID,
		Title:     w.Title,
		Steps:     MapAPIStepsToDomain(w.Steps),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		IsRunning: w.IsRunning,
	}, nil
}

func MapDomainStepsToAPI(steps []domain.Step) []api.Step {
	out := make([]api.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, api.Step{
			ID:            api.StepID(s.ID),
			Instruction:   s.Instruction,
			Executor:      string(s.Executor),
			AssignedHuman: s.AssignedHuman,
		})
	}
	return out
}

func MapAPIStepsToDomain(steps []api.Step) []domain.Step {
	if steps == nil {
		return nil
	}
	out := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, domain.Step{
			ID:            domain.StepID(s.ID),
			Instruction:   s.Instruction,
			Executor:      domain.Executor(s.Executor),
			AssignedHuman: s.AssignedHuman,
		})
	}
	return out
}

func MapAPIInputToDomain(in api.WorkflowInput) domain.WorkflowDraft {
	return domain.WorkflowDraft{
		Title: in.Title,
		Steps: MapAPIStepsToDomain(in.Steps),
	}
}

func MapDomainDraftToAPI(d domain.WorkflowDraft) api.WorkflowInput {
	return api.WorkflowInput{
		Title: d.Title,
		Steps: MapDomainStepsToAPI(d.Steps),
	}
}
