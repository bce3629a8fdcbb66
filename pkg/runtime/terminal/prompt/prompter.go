// Package prompt implements ui.Notifier on a line based terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter reads answers line by line from in and writes messages to out.
// One Prompter must own the input stream; it buffers ahead.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewPrompter returns a prompter. With assumeYes every confirmation is
// accepted without reading input.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
}

func (p *Prompter) Alert(message string) {
	fmt.Fprintln(p.out, message)
}

// Confirm accepts "y" or "yes" in any case. Anything else, including end of
// input, declines.
func (p *Prompter) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	answer, err := p.ReadLine(message + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ReadLine shows prompt and returns the next line without surrounding
// whitespace. A final line without a newline is still returned; io.EOF is
// reported only once input is exhausted.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
