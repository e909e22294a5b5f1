// Package deploy provides the stage pipeline that drives a deployment run.
//
// A run is a fixed sequence of stages executed strictly top to bottom with
// early exit on first failure. The stage set depends on the requested
// action; the stages themselves live in focused subpackages:
//   - materialize/ — environment configuration snapshot into shared dirs
//   - provision/ — Terraform plan/apply/destroy with the production gate
//   - inventorygen/ — Ansible inventory generation from Terraform outputs
//   - configure/ — readiness poll and playbook run
//   - verify/ — advisory post-deployment test harness
//   - report/ — final deployment summary
//
// This root package contains the Stage interface, the shared Context and
// State types, and the sequential driver.
package deploy

import (
	"errors"
	"fmt"
	"time"
)

// ErrCancelled signals a user-declined confirmation. It aborts the pipeline
// but is reported as a graceful cancellation (exit 0), not a failure.
var ErrCancelled = errors.New("deployment cancelled by user")

// Stage defines one step of the deployment pipeline.
type Stage interface {
	// Name returns the human-readable name of this stage.
	Name() string

	// Run executes the stage. Returning an error aborts the pipeline.
	Run(ctx *Context) error
}

// Run executes all stages sequentially, short-circuiting on first failure.
// A cancellation passes through unwrapped so the caller can distinguish it
// from a failure.
func Run(ctx *Context, stages []Stage) error {
	start := time.Now()
	ctx.Observer.Printf("Starting %s for %s with %d stages...",
		ctx.Request.Action, ctx.Request.Environment, len(stages))

	for i, stage := range stages {
		stageStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", stage.Name(), i+1, len(stages))

		ctx.Observer.Printf("[%s] starting", name)

		if err := stage.Run(ctx); err != nil {
			if errors.Is(err, ErrCancelled) {
				ctx.Observer.Printf("[%s] cancelled", name)
				return ErrCancelled
			}
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			return fmt.Errorf("%s stage failed: %w", stage.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(stageStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("Pipeline completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
