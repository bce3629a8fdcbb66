package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    StepID
		wantErr bool
	}{
		{name: "string", input: `{"id":"a1b2"}`, want: "a1b2"},
		{name: "integer", input: `{"id":1718000000000}`, want: "1718000000000"},
		{name: "null", input: `{"id":null}`, want: ""},
		{name: "missing", input: `{}`, want: ""},
		{name: "bool", input: `{"id":true}`, wantErr: true},
		{name: "object", input: `{"id":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var step Step
			err := json.Unmarshal([]byte(tt.input), &step)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, step.ID)
		})
	}
}

func TestStepID_MarshalsAsString(t *testing.T) {
	data, err := json.Marshal(Step{ID: "42", Instruction: "a", Executor: "ai"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"42","instruction":"a","executor":"ai"}`, string(data))
}
