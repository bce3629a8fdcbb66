package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/prompt"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal/report"
	"github.com/de-tools/workflow-builder/pkg/ui"
)

const sessionHelp = `Commands (steps are numbered from 1):
  show                   print the workflow
  title <text>           set the title
  add                    append an AI step
  instr <n> <text>       set the instruction of step n
  exec <n> ai|human      change who performs step n
  assign <n> <name>      assign step n to a person from the roster
  roster                 list the people steps can be assigned to
  del <n>                delete step n
  save                   save the workflow
  quit                   leave without saving
`

var errStepNumber = errors.New("expected a step number")

// editSession is a line oriented loop over an EditorController. It ends on
// quit, end of input, or after a successful save when leaveOnSave is set.
type editSession struct {
	editor      *ui.EditorController
	prompter    *prompt.Prompter
	reporter    *report.Reporter
	out         io.Writer
	leaveOnSave bool

	saved bool
}

func (s *editSession) run(ctx context.Context) error {
	if err := s.reporter.Draft(s.editor.Title(), s.editor.Steps()); err != nil {
		return err
	}
	fmt.Fprintln(s.out, `Type "help" for commands.`)

	for {
		line, err := s.prompter.ReadLine("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			continue
		}

		done, err := s.exec(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

func (s *editSession) exec(ctx context.Context, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "help", "?":
		fmt.Fprint(s.out, sessionHelp)
	case "show":
		return false, s.reporter.Draft(s.editor.Title(), s.editor.Steps())
	case "title":
		s.editor.SetTitle(rest)
	case "add":
		s.editor.AddStep()
		fmt.Fprintf(s.out, "Added step %d\n", len(s.editor.Steps()))
	case "instr":
		id, text, err := s.step(rest)
		if err != nil {
			return false, err
		}
		return false, s.editor.SetInstruction(id, text)
	case "exec":
		id, executor, err := s.step(rest)
		if err != nil {
			return false, err
		}
		return false, s.editor.SetExecutor(id, domain.Executor(strings.ToLower(executor)))
	case "assign":
		id, human, err := s.step(rest)
		if err != nil {
			return false, err
		}
		return false, s.editor.AssignHuman(id, human)
	case "roster":
		for _, person := range s.editor.Roster() {
			fmt.Fprintln(s.out, person)
		}
	case "del":
		id, _, err := s.step(rest)
		if err != nil {
			return false, err
		}
		return false, s.editor.DeleteStep(id)
	case "save":
		// failures are already reported through the notifier
		if _, err := s.editor.Save(ctx); err != nil {
			return false, nil
		}
		s.saved = true
		return s.leaveOnSave, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type help for the list", name)
	}
	return false, nil
}

// step resolves the 1-based step number at the start of args and returns the
// remaining text.
func (s *editSession) step(args string) (domain.StepID, string, error) {
	num, rest, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(num)
	if err != nil {
		return "", "", errStepNumber
	}

	steps := s.editor.Steps()
	if n < 1 || n > len(steps) {
		return "", "", fmt.Errorf("no step %d, the workflow has %d", n, len(steps))
	}
	return steps[n-1].ID, strings.TrimSpace(rest), nil
}
