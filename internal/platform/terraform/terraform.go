// Package terraform wraps the Terraform CLI. The provisioning tool is an
// opaque collaborator: this package builds argument lists, runs the binary
// in the shared infrastructure directory, and reads named outputs.
package terraform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner is the interface the pipeline stages consume. Implemented by
// CLIRunner; tests substitute fakes.
type Runner interface {
	// Init initializes the working directory against the given backend
	// configuration file.
	Init(ctx context.Context, backendFile string) error

	// Plan computes an execution plan from the variables file and persists
	// it to planFile. When destroy is true the plan is computed in
	// destructive mode.
	Plan(ctx context.Context, varsFile, planFile string, destroy bool) error

	// Apply applies a previously persisted plan artifact verbatim.
	Apply(ctx context.Context, planFile string) error

	// Output reads a single named string output from the state.
	Output(ctx context.Context, name string) (string, error)
}

// CLIRunner runs the terraform binary in a fixed working directory.
type CLIRunner struct {
	// Dir is the working directory for all invocations.
	Dir string

	// Stdout and Stderr receive streamed tool output. Default to the
	// process streams.
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
// capture argument lists without running the binary.
var runCommand = func(ctx context.Context, dir string, stdout, stderr io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "terraform", args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("terraform %s: %w", args[0], err)
	}
	return nil
}

// Init implements Runner.
func (r *CLIRunner) Init(ctx context.Context, backendFile string) error {
	args := []string{"init", "-input=false"}
	if backendFile != "" {
		args = append(args, "-backend-config="+backendFile)
	}
	return runCommand(ctx, r.Dir, r.Stdout, r.Stderr, args...)
}

// Plan implements Runner.
func (r *CLIRunner) Plan(ctx context.Context, varsFile, planFile string, destroy bool) error {
	args := []string{"plan", "-input=false", "-var-file=" + varsFile, "-out=" + planFile}
	if destroy {
		args = append(args, "-destroy")
	}
	return runCommand(ctx, r.Dir, r.Stdout, r.Stderr, args...)
}

// Apply implements Runner.
func (r *CLIRunner) Apply(ctx context.Context, planFile string) error {
	return runCommand(ctx, r.Dir, r.Stdout, r.Stderr, "apply", "-input=false", planFile)
}

// Output implements Runner. The value is read with -raw, so it comes back
// without quoting or a trailing newline beyond what the tool prints.
func (r *CLIRunner) Output(ctx context.Context, name string) (string, error) {
	var out bytes.Buffer
	if err := runCommand(ctx, r.Dir, &out, io.Discard, "output", "-raw", name); err != nil {
		return "", fmt.Errorf("failed to read output %q: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}

// Output names exposed by the infrastructure definitions.
const (
	OutputPublicIP      = "public_ip_address"
	OutputVMName        = "vm_name"
	OutputResourceGroup = "resource_group_name"
	OutputSSHCommand    = "ssh_connection_command"
)

// Outputs is the full set of string outputs queried after an apply. Each
// field is independently optional; queries that fail leave the field empty.
type Outputs struct {
	PublicIP      string
	VMName        string
	ResourceGroup string
	SSHCommand    string
}

// ReadOutputs queries all known outputs, tolerating individual failures.
// Fields for failed queries are left empty.
func ReadOutputs(ctx context.Context, r Runner) Outputs {
	var outs Outputs
	outs.PublicIP, _ = r.Output(ctx, OutputPublicIP)
	outs.VMName, _ = r.Output(ctx, OutputVMName)
	outs.ResourceGroup, _ = r.Output(ctx, OutputResourceGroup)
	outs.SSHCommand, _ = r.Output(ctx, OutputSSHCommand)
	return outs
}
