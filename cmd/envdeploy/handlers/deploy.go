// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/deploy/configure"
	"github.com/envdeploy/envdeploy/internal/deploy/inventorygen"
	"github.com/envdeploy/envdeploy/internal/deploy/materialize"
	"github.com/envdeploy/envdeploy/internal/deploy/provision"
	"github.com/envdeploy/envdeploy/internal/deploy/report"
	"github.com/envdeploy/envdeploy/internal/deploy/verify"
	"github.com/envdeploy/envdeploy/internal/platform/ansible"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
	"github.com/envdeploy/envdeploy/internal/ssh"
	"github.com/envdeploy/envdeploy/internal/ui"
	"github.com/envdeploy/envdeploy/internal/util/prerequisites"
)

// DeployOptions carries the root command's flags.
type DeployOptions struct {
	// Root is the project root directory.
	Root string

	// AutoApprove bypasses the production confirmation prompt.
	AutoApprove bool

	// SkipTests skips the verification stage.
	SkipTests bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newTerraformRunner creates the Terraform CLI wrapper.
	newTerraformRunner = func(dir string) terraform.Runner {
		return terraform.NewCLIRunner(dir)
	}

	// newAnsibleRunner creates the Ansible CLI wrapper.
	newAnsibleRunner = func(dir string) ansible.Runner {
		return ansible.NewCLIRunner(dir)
	}

	// newProber creates the host reachability prober.
	newProber = func(opts *config.Options) configure.Prober {
		return ssh.NewDialProber(opts.SSH.User, opts.SSH.KeyPath, opts.SSH.Port)
	}

	// newConfirmer creates the production confirmation gate.
	newConfirmer = func(autoApprove bool) provision.Confirmer {
		if autoApprove {
			return ui.AutoApprover{}
		}
		return ui.TerminalConfirmer{}
	}

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// loadOptions loads run options from the project root.
	loadOptions = config.LoadOptions

	// runPipeline executes the assembled stage pipeline.
	runPipeline = deploy.Run
)

// Deploy runs the deployment pipeline for one environment/action pair.
//
// Argument validation happens first and makes no external calls; a usage
// error or missing environment directory returns before any tool runs. A
// declined production confirmation returns nil (graceful cancellation,
// exit 0); every other abort propagates as an error (exit 1).
func Deploy(ctx context.Context, envArg, actionArg string, opts DeployOptions) error {
	req, err := config.ParseRequest(envArg, actionArg)
	if err != nil {
		return err
	}

	layout := config.NewLayout(opts.Root)
	if err := config.ValidateEnvironmentDir(layout, req.Environment); err != nil {
		return err
	}

	runOpts, err := loadOptions(filepath.Join(opts.Root, config.DefaultOptionsFile))
	if err != nil {
		return err
	}

	if err := checkPrerequisites(); err != nil {
		return err
	}

	log.Printf("Deploying %s (%s)", req.Environment, req.Action)

	pctx := deploy.NewContext(ctx, req, layout, runOpts,
		newTerraformRunner(layout.TerraformDir()),
		newAnsibleRunner(layout.AnsibleDir()),
	)

	if err := runPipeline(pctx, buildStages(req, runOpts, opts)); err != nil {
		if errors.Is(err, deploy.ErrCancelled) {
			log.Printf("Deployment cancelled")
			return nil
		}
		return err
	}

	return nil
}

// buildStages assembles the stage list for the requested action.
//
// Configuration, inventory generation, and verification only make sense
// after an apply: a plan provisions nothing, and a host being torn down is
// not configured. The summary always runs last.
func buildStages(req *config.Request, runOpts *config.Options, opts DeployOptions) []deploy.Stage {
	stages := []deploy.Stage{
		materialize.New(),
		provision.New(newConfirmer(opts.AutoApprove)),
	}

	if req.Action == config.Apply {
		stages = append(stages,
			inventorygen.New(),
			configure.New(newProber(runOpts)),
		)
		if !opts.SkipTests {
			stages = append(stages, verify.New())
		}
	}

	return append(stages, report.New())
}

// checkPrerequisites verifies the external tools are installed before the
// pipeline touches anything.
func checkPrerequisites() error {
	results := checkDefaultPrereqs()

	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("  Found %s (%s)", r.Tool.Name, version)
		}
	}

	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}

	return nil
}
