package deploy

import (
	"context"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/platform/ansible"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
)

// ReadinessState tracks the configuration stage's reachability poll.
type ReadinessState string

// Readiness poll states.
const (
	ReadinessWaiting     ReadinessState = "waiting"
	ReadinessReady       ReadinessState = "ready"
	ReadinessUnreachable ReadinessState = "unreachable"
)

// State holds the shared results of pipeline stages. It is progressively
// populated as each stage completes and read by later stages.
type State struct {
	// Provisioning outputs (populated by the inventory generator after a
	// successful apply; absent for plan and destroy).
	Outputs terraform.Outputs

	// InventoryFile is the path of the generated inventory (populated by
	// the inventory generator).
	InventoryFile string

	// Readiness is the final state of the reachability poll (populated by
	// the configuration stage).
	Readiness ReadinessState

	// ProbeAttempts counts reachability probes performed.
	ProbeAttempts int
}

// NewState creates an empty pipeline state.
func NewState() *State {
	return &State{Readiness: ReadinessWaiting}
}

// Context wraps all dependencies and state needed by pipeline stages.
type Context struct {
	context.Context
	Request   *config.Request
	Layout    *config.Layout
	Options   *config.Options
	State     *State
	Terraform terraform.Runner
	Ansible   ansible.Runner
	Observer  Observer
}

// NewContext creates a pipeline context with a console observer.
func NewContext(
	ctx context.Context,
	req *config.Request,
	layout *config.Layout,
	opts *config.Options,
	tf terraform.Runner,
	ans ansible.Runner,
) *Context {
	return &Context{
		Context:   ctx,
		Request:   req,
		Layout:    layout,
		Options:   opts,
		State:     NewState(),
		Terraform: tf,
		Ansible:   ans,
		Observer:  NewConsoleObserver(),
	}
}
