// Package report renders workflows for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/ui"
)

const previewWidth = 72

const listTemplate = `{{range .}}{{.Title}} [{{.ID}}]{{if running .IsRunning}} (running){{end}}
  {{summary .Steps}} | Updated {{date .UpdatedAt}}
{{with first .Steps}}  1. {{label .}}: {{preview .Instruction}}
{{end}}{{with more .Steps}}  {{.}}
{{end}}
{{else}}No workflows yet.
{{end}}`

const workflowTemplate = `{{.Title}}
ID:      {{if .ID}}{{.ID}}{{else}}(unsaved){{end}}
Created: {{date .CreatedAt}}
Updated: {{date .UpdatedAt}}
Status:  {{if running .IsRunning}}running{{else}}stopped{{end}}
{{template "steps" .Steps}}`

const stepsTemplate = `{{define "steps"}}Steps:   {{summary .}}
{{range $i, $s := .}}{{inc $i}}. [{{label $s}}]
   {{if $s.Instruction}}{{$s.Instruction}}{{else}}(no instruction){{end}}
{{end}}{{end}}`

// Reporter writes workflows to the console in a formatted text form.
type Reporter struct {
	writer   io.Writer
	location *time.Location
}

// NewReporter renders dates in loc, or the local zone when loc is nil.
func NewReporter(writer io.Writer, loc *time.Location) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Reporter{writer: writer, location: loc}
}

// List writes one summary card per workflow, in the order given.
func (r *Reporter) List(workflows []domain.Workflow) error {
	return r.render("list", listTemplate, workflows)
}

func (r *Reporter) Workflow(wf domain.Workflow) error {
	return r.render("workflow", workflowTemplate, wf)
}

// Draft writes a workflow that is being edited.
func (r *Reporter) Draft(title string, steps []domain.Step) error {
	return r.render("draft", "{{.Title}}\n{{template \"steps\" .Steps}}", struct {
		Title string
		Steps []domain.Step
	}{title, steps})
}

func (r *Reporter) render(name, text string, data any) error {
	t, err := template.New(name).Funcs(r.funcMap()).Parse(text + stepsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, data)
}

func (r *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"summary": ui.StepsSummary,
		"more":    ui.MoreSteps,
		"label":   Label,
		"preview": preview,
		"inc":     func(i int) int { return i + 1 },
		"date": func(t *time.Time) string {
			return ui.FormatDate(t, r.location)
		},
		"running": func(b *bool) bool {
			return b != nil && *b
		},
		"first": func(steps []domain.Step) *domain.Step {
			if len(steps) == 0 {
				return nil
			}
			return &steps[0]
		},
	}
}

// Label names who performs a step, e.g. "AI" or "Human: Jason Mao".
func Label(s domain.Step) string {
	switch s.Executor {
	case domain.ExecutorAI:
		return "AI"
	case domain.ExecutorHuman:
		if s.AssignedHuman == "" {
			return "Human"
		}
		return "Human: " + s.AssignedHuman
	default:
		return string(s.Executor)
	}
}

func preview(instruction string) string {
	instruction = strings.Join(strings.Fields(instruction), " ")
	if len([]rune(instruction)) <= previewWidth {
		return instruction
	}
	return string([]rune(instruction)[:previewWidth-3]) + "..."
}
