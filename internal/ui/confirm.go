package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// TerminalConfirmer asks for confirmation on the controlling terminal.
// When stdin is not a terminal (CI pipelines) the prompt cannot be answered
// and the confirmation counts as declined; CI runs pass --auto-approve
// instead.
type TerminalConfirmer struct{}

// Confirm presents a yes/no prompt and reports the choice.
func (TerminalConfirmer) Confirm(title, description string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, Warn("stdin is not a terminal; declining confirmation (use --auto-approve in CI)"))
		return false, nil
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Deploy").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to prompt for confirmation: %w", err)
	}

	return confirmed, nil
}

// AutoApprover approves every confirmation. Used with --auto-approve.
type AutoApprover struct{}

// Confirm always reports approval.
func (AutoApprover) Confirm(_, _ string) (bool, error) {
	return true, nil
}
