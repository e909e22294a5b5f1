// Package report prints the final deployment summary.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
	"github.com/envdeploy/envdeploy/internal/ui"
)

// Placeholder for output fields whose query failed. Partial information is
// always preferable to aborting the summary.
const notAvailable = "N/A"

// Stage re-queries the provisioning outputs and prints a human-readable
// report. It queries independently of values captured earlier so the
// summary reflects true final state.
type Stage struct {
	Out io.Writer
}

// New creates the summary reporter.
func New() *Stage {
	return &Stage{Out: os.Stdout}
}

// Name implements deploy.Stage.
func (s *Stage) Name() string { return "summary" }

// Run implements deploy.Stage. It never fails.
func (s *Stage) Run(ctx *deploy.Context) error {
	outs := terraform.ReadOutputs(ctx, ctx.Terraform)

	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, ui.Title("Deployment Summary"))
	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Environment:"), ctx.Request.Environment)
	if ctx.Request.Action != "" {
		fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Action:"), ctx.Request.Action)
	}

	s.printSettings(ctx)

	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("VM name:"), orNA(outs.VMName))
	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Public IP:"), orNA(outs.PublicIP))
	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Resource group:"), orNA(outs.ResourceGroup))
	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("SSH:"), orNA(outs.SSHCommand))
	fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Web URL:"), webURL(outs.PublicIP))

	if ctx.State.Readiness == deploy.ReadinessUnreachable {
		fmt.Fprintln(s.Out, "  "+ui.Warn("host was unreachable during the readiness poll"))
	}

	return nil
}

// printSettings enriches the summary with the environment's declared
// settings. Best effort: a missing or unparsable tfvars file is skipped.
func (s *Stage) printSettings(ctx *deploy.Context) {
	settings, err := config.LoadSettings(ctx.Layout.EnvVarsFile(ctx.Request.Environment))
	if err != nil {
		return
	}
	if settings.Location != "" {
		fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Location:"), settings.Location)
	}
	if settings.VMSize != "" {
		fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("VM size:"), settings.VMSize)
	}
	if settings.MonthlyBudget > 0 {
		fmt.Fprintf(s.Out, "  %s %s\n", ui.Section("Budget:"), ui.Dim(fmt.Sprintf("%.0f/month", settings.MonthlyBudget)))
	}
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}

func webURL(ip string) string {
	if ip == "" {
		return notAvailable
	}
	return "http://" + ip
}
