package domain

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a draft against the workflow document schema. It returns
// the first violation found as a *ValidationError.
func (d WorkflowDraft) Validate(roster Roster) error {
	if strings.TrimSpace(d.Title) == "" {
		return invalid("title", "title is required")
	}
	if d.Steps == nil {
		return invalid("steps", "steps are required")
	}

	seen := make(map[StepID]int, len(d.Steps))
	for i, step := range d.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		if step.ID != "" {
			if prev, ok := seen[step.ID]; ok {
				return invalid(field+".id", "%s.id %q duplicates steps[%d].id", field, step.ID, prev)
			}
			seen[step.ID] = i
		}
		if strings.TrimSpace(step.Instruction) == "" {
			return invalid(field+".instruction", "%s.instruction is required", field)
		}
		if !step.Executor.Valid() {
			return invalid(field+".executor", "%s.executor must be one of %q, %q", field, ExecutorAI, ExecutorHuman)
		}

		switch step.Executor {
		case ExecutorAI:
			if step.AssignedHuman != "" {
				return invalid(field+".assignedHuman", "%s.assignedHuman is only allowed for human steps", field)
			}
		case ExecutorHuman:
			if step.AssignedHuman == "" {
				return invalid(field+".assignedHuman", "%s.assignedHuman is required for human steps", field)
			}
			if len(roster) > 0 && !roster.Contains(step.AssignedHuman) {
				return invalid(field+".assignedHuman", "%s.assignedHuman %q is not a known assignee", field, step.AssignedHuman)
			}
		}
	}

	return nil
}
