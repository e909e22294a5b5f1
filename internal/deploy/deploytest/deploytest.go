// Package deploytest provides shared test doubles for pipeline stage tests.
package deploytest

import (
	"context"
	"fmt"
	"sync"
)

// Observer records every status line it receives.
type Observer struct {
	mu    sync.Mutex
	Lines []string
	Warns []string
	Fails []string
}

// NewObserver creates an empty recording observer.
func NewObserver() *Observer {
	return &Observer{}
}

// Printf implements deploy.Observer.
func (o *Observer) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Lines = append(o.Lines, fmt.Sprintf(format, v...))
}

// Successf implements deploy.Observer.
func (o *Observer) Successf(format string, v ...interface{}) {
	o.Printf(format, v...)
}

// Warnf implements deploy.Observer.
func (o *Observer) Warnf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Warns = append(o.Warns, fmt.Sprintf(format, v...))
}

// Failf implements deploy.Observer.
func (o *Observer) Failf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Fails = append(o.Fails, fmt.Sprintf(format, v...))
}

// TerraformRunner is a scriptable fake for terraform.Runner.
type TerraformRunner struct {
	InitCalls    []string
	PlanCalls    []PlanCall
	ApplyCalls   []string
	OutputCalls  []string
	InitErr      error
	PlanErr      error
	ApplyErr     error
	OutputValues map[string]string
	OutputErrs   map[string]error
}

// PlanCall records one Plan invocation.
type PlanCall struct {
	VarsFile string
	PlanFile string
	Destroy  bool
}

// NewTerraformRunner creates a fake with empty output tables.
func NewTerraformRunner() *TerraformRunner {
	return &TerraformRunner{
		OutputValues: make(map[string]string),
		OutputErrs:   make(map[string]error),
	}
}

// Init implements terraform.Runner.
func (f *TerraformRunner) Init(_ context.Context, backendFile string) error {
	f.InitCalls = append(f.InitCalls, backendFile)
	return f.InitErr
}

// Plan implements terraform.Runner.
func (f *TerraformRunner) Plan(_ context.Context, varsFile, planFile string, destroy bool) error {
	f.PlanCalls = append(f.PlanCalls, PlanCall{VarsFile: varsFile, PlanFile: planFile, Destroy: destroy})
	return f.PlanErr
}

// Apply implements terraform.Runner.
func (f *TerraformRunner) Apply(_ context.Context, planFile string) error {
	f.ApplyCalls = append(f.ApplyCalls, planFile)
	return f.ApplyErr
}

// Output implements terraform.Runner.
func (f *TerraformRunner) Output(_ context.Context, name string) (string, error) {
	f.OutputCalls = append(f.OutputCalls, name)
	if err, ok := f.OutputErrs[name]; ok {
		return "", err
	}
	if v, ok := f.OutputValues[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("output %q not defined", name)
}

// AnsibleRunner is a scriptable fake for ansible.Runner.
type AnsibleRunner struct {
	InstallCalls  []string
	PingCalls     []string
	PlaybookCalls []PlaybookCall
	InstallErr    error
	PingErrs      []error // consumed per call; nil once exhausted
	PlaybookErr   error
}

// PlaybookCall records one RunPlaybook invocation.
type PlaybookCall struct {
	Inventory string
	Playbook  string
}

// InstallCollections implements ansible.Runner.
func (f *AnsibleRunner) InstallCollections(_ context.Context, requirementsFile string) error {
	f.InstallCalls = append(f.InstallCalls, requirementsFile)
	return f.InstallErr
}

// Ping implements ansible.Runner.
func (f *AnsibleRunner) Ping(_ context.Context, inventoryFile string) error {
	f.PingCalls = append(f.PingCalls, inventoryFile)
	if len(f.PingErrs) == 0 {
		return nil
	}
	err := f.PingErrs[0]
	f.PingErrs = f.PingErrs[1:]
	return err
}

// RunPlaybook implements ansible.Runner.
func (f *AnsibleRunner) RunPlaybook(_ context.Context, inventoryFile, playbookFile string) error {
	f.PlaybookCalls = append(f.PlaybookCalls, PlaybookCall{Inventory: inventoryFile, Playbook: playbookFile})
	return f.PlaybookErr
}
