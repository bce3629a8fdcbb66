package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_WithExecutor(t *testing.T) {
	t.Run("human to ai drops assignee", func(t *testing.T) {
		step := Step{ID: "1", Instruction: "review", Executor: ExecutorHuman, AssignedHuman: "Jason Mao"}

		got := step.WithExecutor(ExecutorAI, DefaultRoster.Default())

		assert.Equal(t, ExecutorAI, got.Executor)
		assert.Empty(t, got.AssignedHuman)
	})

	t.Run("ai to human assigns default", func(t *testing.T) {
		step := Step{ID: "1", Instruction: "review", Executor: ExecutorAI}

		got := step.WithExecutor(ExecutorHuman, DefaultRoster.Default())

		assert.Equal(t, ExecutorHuman, got.Executor)
		assert.Equal(t, "Femi Ibrahim", got.AssignedHuman)
	})

	t.Run("round trip through ai loses previous assignee", func(t *testing.T) {
		step := Step{ID: "1", Instruction: "review", Executor: ExecutorHuman, AssignedHuman: "Jason Mao"}

		got := step.WithExecutor(ExecutorAI, "Femi Ibrahim").WithExecutor(ExecutorHuman, "Femi Ibrahim")

		assert.Equal(t, "Femi Ibrahim", got.AssignedHuman)
	})

	t.Run("human to human keeps assignee", func(t *testing.T) {
		step := Step{ID: "1", Instruction: "review", Executor: ExecutorHuman, AssignedHuman: "Jason Mao"}

		got := step.WithExecutor(ExecutorHuman, "Femi Ibrahim")

		assert.Equal(t, "Jason Mao", got.AssignedHuman)
	})
}

func TestWorkflow_DraftCopiesSteps(t *testing.T) {
	wf := Workflow{ID: "w1", Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: ExecutorAI}}}

	draft := wf.Draft()
	draft.Steps[0].Instruction = "changed"

	assert.Equal(t, "a", wf.Steps[0].Instruction)
	assert.Equal(t, "t", draft.Title)
}

func TestWorkflowDraft_Validate(t *testing.T) {
	tests := []struct {
		name  string
		draft WorkflowDraft
		field string
	}{
		{
			name:  "valid",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: ExecutorAI}}},
		},
		{
			name:  "valid without step ids",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{Instruction: "a", Executor: ExecutorAI}, {Instruction: "b", Executor: ExecutorAI}}},
		},
		{
			name:  "valid empty steps",
			draft: WorkflowDraft{Title: "t", Steps: []Step{}},
		},
		{
			name:  "blank title",
			draft: WorkflowDraft{Title: "  ", Steps: []Step{}},
			field: "title",
		},
		{
			name:  "missing steps",
			draft: WorkflowDraft{Title: "t"},
			field: "steps",
		},
		{
			name:  "blank instruction",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: " ", Executor: ExecutorAI}}},
			field: "steps[0].instruction",
		},
		{
			name:  "unknown executor",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: "robot"}}},
			field: "steps[0].executor",
		},
		{
			name:  "ai step with assignee",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: ExecutorAI, AssignedHuman: "Jason Mao"}}},
			field: "steps[0].assignedHuman",
		},
		{
			name:  "human step without assignee",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: ExecutorHuman}}},
			field: "steps[0].assignedHuman",
		},
		{
			name:  "human step with unknown assignee",
			draft: WorkflowDraft{Title: "t", Steps: []Step{{ID: "1", Instruction: "a", Executor: ExecutorHuman, AssignedHuman: "Nobody"}}},
			field: "steps[0].assignedHuman",
		},
		{
			name: "duplicate step ids",
			draft: WorkflowDraft{Title: "t", Steps: []Step{
				{ID: "1", Instruction: "a", Executor: ExecutorAI},
				{ID: "1", Instruction: "b", Executor: ExecutorAI},
			}},
			field: "steps[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate(DefaultRoster)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRoster(t *testing.T) {
	assert.Equal(t, "Femi Ibrahim", DefaultRoster.Default())
	assert.True(t, DefaultRoster.Contains("Jason Mao"))
	assert.False(t, DefaultRoster.Contains("jason mao"))
	assert.Empty(t, Roster{}.Default())
}
