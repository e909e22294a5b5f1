// Package provision drives the Terraform plan/apply cycle, including the
// production confirmation gate.
package provision

import (
	"fmt"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
)

// Confirmer asks the operator for an explicit go-ahead. Implemented by
// ui.TerminalConfirmer; CI runs substitute ui.AutoApprover.
type Confirmer interface {
	Confirm(title, description string) (bool, error)
}

// Stage computes an execution plan and, unless the action is plan, applies
// it. The persisted plan artifact is reused by apply so the applied changes
// match exactly what was reviewed.
type Stage struct {
	Confirm Confirmer
}

// New creates the provisioning stage with the given confirmer.
func New(confirm Confirmer) *Stage {
	return &Stage{Confirm: confirm}
}

// Name implements deploy.Stage.
func (s *Stage) Name() string { return "provision" }

// Run implements deploy.Stage.
func (s *Stage) Run(ctx *deploy.Context) error {
	layout := ctx.Layout
	req := ctx.Request

	if err := ctx.Terraform.Init(ctx, layout.SharedBackendFile()); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	destroy := req.Action == config.Destroy
	if err := ctx.Terraform.Plan(ctx, layout.SharedVarsFile(), layout.PlanFile(), destroy); err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	if req.Action == config.Plan {
		ctx.Observer.Successf("plan for %s written to %s", req.Environment, layout.PlanFile())
		return nil
	}

	if req.Environment == config.Production && req.Action == config.Apply {
		ok, err := s.Confirm.Confirm(
			"Apply to production?",
			"Review the plan above. This will change live infrastructure.",
		)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return deploy.ErrCancelled
		}
	}

	if err := ctx.Terraform.Apply(ctx, layout.PlanFile()); err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	ctx.Observer.Successf("%s completed for %s", req.Action, req.Environment)
	return nil
}
