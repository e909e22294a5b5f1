// Package materialize copies an environment's configuration files into the
// shared working directories the external tools read from.
package materialize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/envdeploy/envdeploy/internal/deploy"
)

// Stage snapshots the chosen environment's configuration into the shared
// Terraform and Ansible directories. The copy deliberately overwrites
// whatever a previous run left there; the per-environment originals remain
// authoritative.
type Stage struct{}

// New creates the materializer stage.
func New() *Stage {
	return &Stage{}
}

// Name implements deploy.Stage.
func (s *Stage) Name() string { return "materialize" }

// Run implements deploy.Stage.
func (s *Stage) Run(ctx *deploy.Context) error {
	env := ctx.Request.Environment
	layout := ctx.Layout

	copies := []struct {
		src, dst string
	}{
		{layout.EnvVarsFile(env), layout.SharedVarsFile()},
		{layout.EnvBackendFile(env), layout.SharedBackendFile()},
		{layout.EnvAnsibleVarsFile(env), layout.SharedAnsibleVarsFile()},
	}

	for _, c := range copies {
		if err := copyFile(c.src, c.dst); err != nil {
			return err
		}
		ctx.Observer.Printf("materialized %s -> %s", c.src, c.dst)
	}

	ctx.Observer.Successf("environment %s materialized", env)
	return nil
}

// copyFile copies src over dst, creating the destination directory. Not
// atomic; two concurrent runs targeting different environments would
// corrupt each other, which is why at most one pipeline runs per machine.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - paths come from the project layout
	if err != nil {
		return fmt.Errorf("environment file missing: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create shared directory: %w", err)
	}

	out, err := os.Create(dst) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create shared file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
