package shell

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter collects operator input. Implementations return io.EOF when the
// operator ends the session (Ctrl-C, Ctrl-D, closed input).
type Prompter interface {
	// Choose shows items and returns the index of the selected one.
	Choose(label string, items []string) (int, error)

	// Text reads one line. validate, when not nil, must accept the input.
	Text(label string, validate func(string) error) (string, error)
}

// TerminalPrompter is the interactive Prompter backed by promptui.
type TerminalPrompter struct {
	Stdin  io.ReadCloser  // nil means os.Stdin
	Stdout io.WriteCloser // nil means os.Stdout
}

// Choose implements Prompter.
func (p *TerminalPrompter) Choose(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label:  label,
		Items:  items,
		Size:   len(items),
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, mapPromptError(err)
	}
	return idx, nil
}

// Text implements Prompter.
func (p *TerminalPrompter) Text(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
	}
	text, err := prompt.Run()
	if err != nil {
		return "", mapPromptError(err)
	}
	return strings.TrimSpace(text), nil
}

func mapPromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return io.EOF
	}
	return err
}
