// Package configure runs the configuration tool against the generated
// inventory, after ensuring collection dependencies and polling for host
// readiness.
package configure

import (
	"fmt"
	"os"

	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/util/retry"
)

// Prober attempts a lightweight reachability check against a single host.
// Implemented by ssh.DialProber.
type Prober interface {
	Probe(host string) error
}

// Stage installs collection dependencies, waits for the host to become
// reachable, and runs the playbook.
//
// The readiness poll is bounded: after exhausting its attempts the stage
// records the host as unreachable and runs the playbook anyway, letting the
// configuration tool produce the clearer error. A transient probe failure
// must not abort a deployment that would otherwise succeed.
type Stage struct {
	Prober Prober

	// Sleep overrides the poll's sleep function. Tests inject a no-op.
	Sleep retry.SleepFunc
}

// New creates the configuration stage with the given prober.
func New(prober Prober) *Stage {
	return &Stage{Prober: prober}
}

// Name implements deploy.Stage.
func (s *Stage) Name() string { return "configure" }

// Run implements deploy.Stage.
func (s *Stage) Run(ctx *deploy.Context) error {
	if err := s.installCollections(ctx); err != nil {
		return err
	}

	s.waitForHost(ctx)

	if err := ctx.Ansible.RunPlaybook(ctx, ctx.State.InventoryFile, ctx.Layout.PlaybookFile()); err != nil {
		return fmt.Errorf("playbook run failed: %w", err)
	}

	ctx.Observer.Successf("configuration applied to %s", ctx.State.Outputs.VMName)
	return nil
}

// installCollections installs declared collection dependencies. A project
// without a requirements file has none to install.
func (s *Stage) installCollections(ctx *deploy.Context) error {
	path := ctx.Layout.RequirementsFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := ctx.Ansible.InstallCollections(ctx, path); err != nil {
		return fmt.Errorf("collection install failed: %w", err)
	}
	return nil
}

// waitForHost polls the host until it answers an SSH handshake or the
// attempt budget runs out. States: waiting -> ready | unreachable.
func (s *Stage) waitForHost(ctx *deploy.Context) {
	host := ctx.State.Outputs.PublicIP
	opts := []retry.Option{
		retry.WithMaxAttempts(ctx.Options.Readiness.Attempts),
		retry.WithInterval(ctx.Options.Readiness.Interval()),
		retry.WithMultiplier(1.0),
	}
	if s.Sleep != nil {
		opts = append(opts, retry.WithSleep(s.Sleep))
	}

	ctx.State.Readiness = deploy.ReadinessWaiting
	err := retry.Do(ctx, func() error {
		ctx.State.ProbeAttempts++
		ctx.Observer.Printf("probing %s (attempt %d/%d)", host, ctx.State.ProbeAttempts, ctx.Options.Readiness.Attempts)
		return s.Prober.Probe(host)
	}, opts...)

	if err != nil {
		ctx.State.Readiness = deploy.ReadinessUnreachable
		ctx.Observer.Warnf("host %s not reachable after %d attempts; attempting configuration anyway", host, ctx.State.ProbeAttempts)
		return
	}

	ctx.State.Readiness = deploy.ReadinessReady

	// Module-level sanity check once the transport answers. Advisory only.
	if err := ctx.Ansible.Ping(ctx, ctx.State.InventoryFile); err != nil {
		ctx.Observer.Warnf("ansible ping failed: %v", err)
		return
	}

	ctx.Observer.Successf("host %s is ready", host)
}
