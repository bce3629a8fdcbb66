package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/ui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) List(ctx context.Context) ([]domain.Workflow, error) {
	args := m.Called(ctx)
	workflows, _ := args.Get(0).([]domain.Workflow)
	return workflows, args.Error(1)
}

func (m *mockAPI) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	args := m.Called(ctx, id)
	wf, _ := args.Get(0).(*domain.Workflow)
	return wf, args.Error(1)
}

func (m *mockAPI) Create(ctx context.Context, draft domain.WorkflowDraft) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) Update(ctx context.Context, id string, draft domain.WorkflowDraft) error {
	args := m.Called(ctx, id, draft)
	return args.Error(0)
}

func (m *mockAPI) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) Export(ctx context.Context, workflows []domain.Workflow, dest string) error {
	args := m.Called(ctx, workflows, dest)
	return args.Error(0)
}

func sequentialIDs() ui.StepIDGenerator {
	n := 0
	return func() domain.StepID {
		n++
		return domain.StepID(fmt.Sprintf("step-%d", n))
	}
}

func weeklyReview() domain.Workflow {
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return domain.Workflow{
		ID:    "wf-1",
		Title: "Weekly review",
		Steps: []domain.Step{
			{ID: "s1", Instruction: "Pull recordings", Executor: domain.ExecutorAI},
		},
		UpdatedAt: &updated,
	}
}

// run executes cmd with args and stdin, returning stdout and stderr.
func run(t *testing.T, cmd *cobra.Command, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestListCmd(t *testing.T) {
	api := new(mockAPI)
	api.On("List", mock.Anything).Return([]domain.Workflow{weeklyReview()}, nil)

	out, _, err := run(t, NewListCmd(api, time.UTC), "")

	require.NoError(t, err)
	assert.Contains(t, out, "Weekly review [wf-1]")
	assert.Contains(t, out, "Updated May 1, 2024, 12:00 PM")
}

func TestListCmd_LoadFailure(t *testing.T) {
	api := new(mockAPI)
	api.On("List", mock.Anything).Return(nil, errors.New("Failed to fetch workflows"))

	_, _, err := run(t, NewListCmd(api, time.UTC), "")

	assert.EqualError(t, err, "failed to load workflows: Failed to fetch workflows")
}

func TestShowCmd(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mockAPI)
		wantOut    string
		wantErr    error
	}{
		{
			name: "renders the workflow",
			setupMocks: func(m *mockAPI) {
				wf := weeklyReview()
				m.On("Get", mock.Anything, "wf-1").Return(&wf, nil)
			},
			wantOut: "1. [AI]\n   Pull recordings\n",
		},
		{
			name: "unknown workflow",
			setupMocks: func(m *mockAPI) {
				m.On("Get", mock.Anything, "wf-1").Return(nil, domain.ErrWorkflowNotFound)
			},
			wantErr: domain.ErrWorkflowNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mockAPI)
			tt.setupMocks(api)

			out, _, err := run(t, NewShowCmd(api, time.UTC), "", "wf-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestDeleteCmd(t *testing.T) {
	const question = `Are you sure you want to delete "Weekly review"? This action cannot be undone. [y/N]: `

	listed := func(m *mockAPI) {
		m.On("List", mock.Anything).Return([]domain.Workflow{weeklyReview()}, nil)
	}

	tests := []struct {
		name         string
		input        string
		args         []string
		setupMocks   func(*mockAPI)
		wantOut      []string
		wantErrOut   string
		wantErr      error
		wantNoDelete bool
	}{
		{
			name:  "confirmed",
			input: "y\n",
			args:  []string{"wf-1"},
			setupMocks: func(m *mockAPI) {
				listed(m)
				m.On("Delete", mock.Anything, "wf-1").Return(nil)
			},
			wantOut: []string{question, "Deleted workflow wf-1"},
		},
		{
			name:         "declined",
			input:        "n\n",
			args:         []string{"wf-1"},
			setupMocks:   listed,
			wantOut:      []string{question, "Cancelled"},
			wantNoDelete: true,
		},
		{
			name: "yes flag skips the question and the title lookup",
			args: []string{"wf-1", "--yes"},
			setupMocks: func(m *mockAPI) {
				m.On("Delete", mock.Anything, "wf-1").Return(nil)
			},
			wantOut: []string{"Deleted workflow wf-1"},
		},
		{
			name:  "title lookup failure falls back to the id",
			input: "y\n",
			args:  []string{"wf-1"},
			setupMocks: func(m *mockAPI) {
				m.On("List", mock.Anything).Return(nil, errors.New("Failed to fetch workflows"))
				m.On("Delete", mock.Anything, "wf-1").Return(nil)
			},
			wantOut: []string{
				`Are you sure you want to delete "wf-1"? This action cannot be undone. [y/N]: `,
				"Deleted workflow wf-1",
			},
			wantErrOut: "Could not load workflow titles: Failed to fetch workflows\n",
		},
		{
			name:  "server failure",
			input: "yes\n",
			args:  []string{"wf-1"},
			setupMocks: func(m *mockAPI) {
				listed(m)
				m.On("Delete", mock.Anything, "wf-1").Return(errors.New("connection refused"))
			},
			wantOut: []string{"Error deleting workflow: connection refused"},
			wantErr: errDeleteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mockAPI)
			tt.setupMocks(api)

			out, errOut, err := run(t, NewDeleteCmd(api), tt.input, tt.args...)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, tt.wantErrOut, errOut)
			api.AssertExpectations(t)
			if tt.wantNoDelete {
				api.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestExportCmd(t *testing.T) {
	workflows := []domain.Workflow{weeklyReview()}

	t.Run("file destination", func(t *testing.T) {
		api := new(mockAPI)
		api.On("List", mock.Anything).Return(workflows, nil)
		exporter := new(mockExporter)
		exporter.On("Export", mock.Anything, workflows, "out.json").Return(nil)

		_, errOut, err := run(t, NewExportCmd(api, exporter), "", "--out", "out.json")

		require.NoError(t, err)
		assert.Equal(t, "Exported 1 workflow(s) to out.json\n", errOut)
		exporter.AssertExpectations(t)
	})

	t.Run("stdout by default", func(t *testing.T) {
		api := new(mockAPI)
		api.On("List", mock.Anything).Return(workflows, nil)
		exporter := new(mockExporter)
		exporter.On("Export", mock.Anything, workflows, "-").Return(nil)

		_, errOut, err := run(t, NewExportCmd(api, exporter), "")

		require.NoError(t, err)
		assert.Empty(t, errOut)
		exporter.AssertExpectations(t)
	})

	t.Run("export failure", func(t *testing.T) {
		api := new(mockAPI)
		api.On("List", mock.Anything).Return(workflows, nil)
		exporter := new(mockExporter)
		exporter.On("Export", mock.Anything, workflows, "s3://b/k").Return(errors.New("access denied"))

		_, _, err := run(t, NewExportCmd(api, exporter), "", "-o", "s3://b/k")

		assert.EqualError(t, err, "failed to export workflows: access denied")
	})
}

func TestEditCmd_CreatesNewWorkflow(t *testing.T) {
	api := new(mockAPI)
	want := domain.WorkflowDraft{
		Title: "Weekly review",
		Steps: []domain.Step{
			{ID: "step-1", Instruction: "Pull recordings", Executor: domain.ExecutorAI},
			{ID: "step-2", Instruction: "Review the summary", Executor: domain.ExecutorHuman, AssignedHuman: "Jason Mao"},
		},
	}
	api.On("Create", mock.Anything, want).Return("wf-9", nil)
	api.On("List", mock.Anything).Return([]domain.Workflow{{ID: "wf-9", Title: "Weekly review"}}, nil)

	script := strings.Join([]string{
		"title Weekly review",
		"instr 1 Pull recordings",
		"add",
		"instr 2 Review the summary",
		"exec 2 human",
		"assign 2 Jason Mao",
		"save",
		"title ignored after the session ended",
	}, "\n")

	out, _, err := run(t, NewEditCmd(api, domain.DefaultRoster, time.UTC, sequentialIDs()), script, "--new")

	require.NoError(t, err)
	assert.Contains(t, out, "After discovery calls\n")
	assert.Contains(t, out, "Added step 2")
	assert.Contains(t, out, "Workflow saved successfully!")
	assert.Contains(t, out, "Weekly review [wf-9]")
	api.AssertExpectations(t)
}

func TestEditCmd_UpdatingLatestWorkflowReturnsToList(t *testing.T) {
	api := new(mockAPI)
	latest := weeklyReview()
	renamed := latest
	renamed.Title = "Renamed"
	api.On("List", mock.Anything).Return([]domain.Workflow{latest}, nil).Once()
	api.On("Update", mock.Anything, "wf-1", domain.WorkflowDraft{
		Title: "Renamed",
		Steps: latest.Steps,
	}).Return(nil)
	api.On("List", mock.Anything).Return([]domain.Workflow{renamed}, nil).Once()

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), "title Renamed\nsave\ntitle ignored\nsave\n")

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Workflow saved successfully!"))
	assert.Contains(t, out, "Renamed [wf-1]")
	api.AssertExpectations(t)
}

func TestEditCmd_SaveByIDKeepsSessionOpen(t *testing.T) {
	api := new(mockAPI)
	wf := weeklyReview()
	api.On("Get", mock.Anything, "wf-1").Return(&wf, nil)
	api.On("Update", mock.Anything, "wf-1", mock.Anything).Return(nil).Twice()

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), "save\ntitle Second\nsave\nquit\n", "wf-1")

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Workflow saved successfully!"))
	api.AssertExpectations(t)
	api.AssertNotCalled(t, "List", mock.Anything)
}

func TestEditCmd_EmptyTitleIsRejectedLocally(t *testing.T) {
	api := new(mockAPI)

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), "title\nsave\nquit\n", "--new")

	require.NoError(t, err)
	assert.Contains(t, out, "Please enter a workflow title")
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditCmd_SaveFailureKeepsSessionOpen(t *testing.T) {
	api := new(mockAPI)
	api.On("Create", mock.Anything, mock.Anything).Return("", errors.New("Failed to save")).Once()

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), "save\nshow\n", "--new")

	require.NoError(t, err)
	assert.Contains(t, out, "Error saving workflow: Failed to save")
	assert.Equal(t, 2, strings.Count(out, "After discovery calls\n"))
}

func TestEditCmd_ReportsBadCommands(t *testing.T) {
	api := new(mockAPI)
	script := strings.Join([]string{
		"instr 5 text",
		"instr one text",
		"bogus",
		"del 1",
		"exec 1 robot",
		"assign 1 Femi Ibrahim",
		"roster",
		"quit",
	}, "\n")

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), script, "--new")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: no step 5, the workflow has 1")
	assert.Contains(t, out, "Error: expected a step number")
	assert.Contains(t, out, `Error: unknown command "bogus"`)
	assert.Contains(t, out, "Error: a workflow needs at least one step")
	assert.Contains(t, out, `Error: unknown executor "robot"`)
	assert.Contains(t, out, "Error: only human steps can be assigned")
	assert.Contains(t, out, "Femi Ibrahim\nJason Mao\n")
}

func TestEditCmd_LoadFailureFallsBackToDefault(t *testing.T) {
	api := new(mockAPI)
	api.On("Get", mock.Anything, "wf-1").Return(nil, domain.ErrWorkflowNotFound)

	out, _, err := run(t, NewEditCmd(api, nil, time.UTC, sequentialIDs()), "", "wf-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Could not load workflow")
	assert.Contains(t, out, "After discovery calls\n")
}

func TestEditCmd_NewWithIDIsRejected(t *testing.T) {
	_, _, err := run(t, NewEditCmd(new(mockAPI), nil, time.UTC, nil), "", "wf-1", "--new")
	assert.Error(t, err)
}
