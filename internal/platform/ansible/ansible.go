// Package ansible wraps the Ansible CLI tools: collection installation via
// ansible-galaxy, a module-level ping probe, and playbook execution.
package ansible

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner is the interface the pipeline stages consume. Implemented by
// CLIRunner; tests substitute fakes.
type Runner interface {
	// InstallCollections installs collection dependencies from a
	// requirements file.
	InstallCollections(ctx context.Context, requirementsFile string) error

	// Ping runs the ansible ping module against every host in the
	// inventory. A nonzero exit means at least one host is unreachable.
	Ping(ctx context.Context, inventoryFile string) error

	// RunPlaybook executes a playbook against the inventory,
	// non-interactively, with verbose output for diagnostics.
	RunPlaybook(ctx context.Context, inventoryFile, playbookFile string) error
}

// CLIRunner runs the ansible binaries in a fixed working directory.
type CLIRunner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewCLIRunner creates a runner bound to the given working directory.
func NewCLIRunner(dir string) *CLIRunner {
	return &CLIRunner{
		Dir:    dir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// runCommand builds the exec.Cmd for an invocation. Swapped in tests to
// capture argument lists without running the binaries.
var runCommand = func(ctx context.Context, dir, name string, stdout, stderr io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Ephemeral cloud hosts get fresh host keys on every deploy.
	cmd.Env = append(os.Environ(), "ANSIBLE_HOST_KEY_CHECKING=False")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// InstallCollections implements Runner.
func (r *CLIRunner) InstallCollections(ctx context.Context, requirementsFile string) error {
	return runCommand(ctx, r.Dir, "ansible-galaxy", r.Stdout, r.Stderr,
		"collection", "install", "-r", requirementsFile)
}

// Ping implements Runner.
func (r *CLIRunner) Ping(ctx context.Context, inventoryFile string) error {
	return runCommand(ctx, r.Dir, "ansible", r.Stdout, r.Stderr,
		"all", "-i", inventoryFile, "-m", "ping", "-o")
}

// RunPlaybook implements Runner.
func (r *CLIRunner) RunPlaybook(ctx context.Context, inventoryFile, playbookFile string) error {
	return runCommand(ctx, r.Dir, "ansible-playbook", r.Stdout, r.Stderr,
		"-i", inventoryFile, playbookFile, "-v")
}
