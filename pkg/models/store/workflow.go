package store

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Step struct {
	ID            string `json:"id,omitempty"`
	Instruction   string `json:"instruction"`
	Executor      string `json:"executor"`
	AssignedHuman string `json:"assignedHuman,omitempty"`
}

// Workflow is the persisted document. Timestamps stay nil when the backend
// has not recorded them.
type Workflow struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Steps     []Step     `json:"steps"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	IsRunning *bool      `json:"isRunning,omitempty"`
}

// WorkflowUpdate overwrites the editable fields of a document.
type WorkflowUpdate struct {
	Title     string
	Steps     []Step
	UpdatedAt time.Time
}
