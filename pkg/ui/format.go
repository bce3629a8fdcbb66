package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

const dateLayout = "Jan 2, 2006, 03:04 PM"

// StepsSummary describes the executor mix, e.g. "2 AI steps, 1 human step".
func StepsSummary(steps []domain.Step) string {
	if len(steps) == 0 {
		return "No steps"
	}

	var ai, human int
	for _, s := range steps {
		switch s.Executor {
		case domain.ExecutorAI:
			ai++
		case domain.ExecutorHuman:
			human++
		}
	}

	parts := make([]string, 0, 2)
	if ai > 0 {
		parts = append(parts, plural(ai, "AI step"))
	}
	if human > 0 {
		parts = append(parts, plural(human, "human step"))
	}
	return strings.Join(parts, ", ")
}

// MoreSteps is the "+N more steps" hint shown under the first step preview.
// It is empty for workflows with at most one step.
func MoreSteps(steps []domain.Step) string {
	if len(steps) <= 1 {
		return ""
	}
	return "+" + plural(len(steps)-1, "more step")
}

// FormatDate renders t in loc, or "Unknown" when t is absent.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "Unknown"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
