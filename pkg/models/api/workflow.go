package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StepID accepts both string and numeric identifiers on input and always
// encodes as a string.
type StepID string

func (id *StepID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StepID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("step id must be a string or a number")
	}
	*id = StepID(n.String())
	return nil
}

type Step struct {
	ID            StepID `json:"id,omitempty"`
	Instruction   string `json:"instruction"`
	Executor      string `json:"executor"`
	AssignedHuman string `json:"assignedHuman,omitempty"`
}

type Workflow struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Steps     []Step  `json:"steps"`
	CreatedAt *string `json:"createdAt,omitempty"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
	IsRunning *bool   `json:"isRunning,omitempty"`
}

// WorkflowInput is the request body of create and update.
type WorkflowInput struct {
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// StatusInput is the request body of the status update.
type StatusInput struct {
	IsRunning *bool `json:"isRunning"`
}

type WorkflowList struct {
	Workflows []Workflow `json:"workflows"`
}

type WorkflowResponse struct {
	Workflow Workflow `json:"workflow"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Result is the envelope of every mutating operation.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Health struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
