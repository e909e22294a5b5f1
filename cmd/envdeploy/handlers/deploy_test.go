package handlers

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/deploy/configure"
	"github.com/envdeploy/envdeploy/internal/deploy/deploytest"
	"github.com/envdeploy/envdeploy/internal/deploy/provision"
	"github.com/envdeploy/envdeploy/internal/platform/ansible"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
	"github.com/envdeploy/envdeploy/internal/util/prerequisites"
)

// saveAndRestoreFactories saves all factory variables and restores them
// after the test completes.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origTerraform := newTerraformRunner
	origAnsible := newAnsibleRunner
	origProber := newProber
	origConfirmer := newConfirmer
	origPrereqs := checkDefaultPrereqs
	origLoadOptions := loadOptions
	origRunPipeline := runPipeline

	t.Cleanup(func() {
		newTerraformRunner = origTerraform
		newAnsibleRunner = origAnsible
		newProber = origProber
		newConfirmer = origConfirmer
		checkDefaultPrereqs = origPrereqs
		loadOptions = origLoadOptions
		runPipeline = origRunPipeline
	})
}

type immediateProber struct{}

func (immediateProber) Probe(string) error { return nil }

type confirmFunc func(title, description string) (bool, error)

func (f confirmFunc) Confirm(title, description string) (bool, error) {
	return f(title, description)
}

// testHarness wires fake runners into the handler factories and writes a
// complete environment directory under a temp project root.
type testHarness struct {
	root string
	tf   *deploytest.TerraformRunner
	ans  *deploytest.AnsibleRunner
}

func newHarness(t *testing.T, env config.Environment) *testHarness {
	t.Helper()
	saveAndRestoreFactories(t)

	h := &testHarness{
		root: t.TempDir(),
		tf:   deploytest.NewTerraformRunner(),
		ans:  &deploytest.AnsibleRunner{},
	}

	h.tf.OutputValues[terraform.OutputPublicIP] = "203.0.113.10"
	h.tf.OutputValues[terraform.OutputVMName] = string(env) + "-vm"
	h.tf.OutputValues[terraform.OutputResourceGroup] = "rg-" + string(env)
	h.tf.OutputValues[terraform.OutputSSHCommand] = "ssh azureuser@203.0.113.10"

	newTerraformRunner = func(string) terraform.Runner { return h.tf }
	newAnsibleRunner = func(string) ansible.Runner { return h.ans }
	newProber = func(*config.Options) configure.Prober { return immediateProber{} }
	checkDefaultPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }

	layout := config.NewLayout(h.root)
	require.NoError(t, os.MkdirAll(layout.EnvironmentDir(env), 0o755))
	require.NoError(t, os.WriteFile(layout.EnvVarsFile(env), []byte("location = \"westeurope\"\n"), 0o644))
	require.NoError(t, os.WriteFile(layout.EnvBackendFile(env), []byte("key = \"state\"\n"), 0o644))
	require.NoError(t, os.WriteFile(layout.EnvAnsibleVarsFile(env), []byte("app_port: 8080\n"), 0o644))

	return h
}

func TestDeploy_InvalidArgumentsMakeNoExternalCalls(t *testing.T) {
	saveAndRestoreFactories(t)

	constructed := false
	newTerraformRunner = func(string) terraform.Runner {
		constructed = true
		return deploytest.NewTerraformRunner()
	}
	newAnsibleRunner = func(string) ansible.Runner {
		constructed = true
		return &deploytest.AnsibleRunner{}
	}
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		constructed = true
		return &prerequisites.CheckResults{}
	}

	cases := []struct{ env, action string }{
		{"prod", "apply"},
		{"dev", "deploy"},
		{"", ""},
		{"production", "delete"},
	}
	for _, c := range cases {
		err := Deploy(context.Background(), c.env, c.action, DeployOptions{Root: t.TempDir()})
		require.Error(t, err, "%s/%s", c.env, c.action)
	}

	assert.False(t, constructed, "no external collaborator may be touched on usage errors")
}

func TestDeploy_MissingEnvironmentDirIsFatal(t *testing.T) {
	saveAndRestoreFactories(t)
	checkDefaultPrereqs = func() *prerequisites.CheckResults { t.Fatal("unexpected"); return nil }

	err := Deploy(context.Background(), "dev", "plan", DeployOptions{Root: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment directory not found")
}

func TestDeploy_PlanStopsAfterPlan(t *testing.T) {
	h := newHarness(t, config.Dev)

	require.NoError(t, Deploy(context.Background(), "dev", "plan", DeployOptions{Root: h.root}))

	require.Len(t, h.tf.PlanCalls, 1)
	assert.False(t, h.tf.PlanCalls[0].Destroy)
	assert.Empty(t, h.tf.ApplyCalls)
	assert.Empty(t, h.ans.PlaybookCalls, "plan must not configure anything")
}

func TestDeploy_ApplyRunsFullPipeline(t *testing.T) {
	h := newHarness(t, config.Dev)

	require.NoError(t, Deploy(context.Background(), "dev", "apply", DeployOptions{Root: h.root, SkipTests: true}))

	require.Len(t, h.tf.PlanCalls, 1)
	require.Len(t, h.tf.ApplyCalls, 1)
	require.Len(t, h.ans.PlaybookCalls, 1)

	// Inventory was generated from the outputs.
	layout := config.NewLayout(h.root)
	data, err := os.ReadFile(layout.InventoryFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "203.0.113.10")
	assert.Contains(t, string(data), "dev-vm")
}

func TestDeploy_DestroySkipsConfigurationAndVerification(t *testing.T) {
	h := newHarness(t, config.Staging)

	require.NoError(t, Deploy(context.Background(), "staging", "destroy", DeployOptions{Root: h.root}))

	require.Len(t, h.tf.PlanCalls, 1)
	assert.True(t, h.tf.PlanCalls[0].Destroy)
	require.Len(t, h.tf.ApplyCalls, 1)

	assert.Empty(t, h.ans.InstallCalls)
	assert.Empty(t, h.ans.PingCalls)
	assert.Empty(t, h.ans.PlaybookCalls, "destroy must never invoke the configuration tool")
}

func TestDeploy_ProductionDeclineIsGracefulNoOp(t *testing.T) {
	h := newHarness(t, config.Production)

	newConfirmer = func(autoApprove bool) provision.Confirmer {
		assert.False(t, autoApprove)
		return confirmFunc(func(_, _ string) (bool, error) { return false, nil })
	}

	err := Deploy(context.Background(), "production", "apply", DeployOptions{Root: h.root})

	require.NoError(t, err, "declined confirmation is a graceful cancellation")
	assert.Empty(t, h.tf.ApplyCalls, "declining must skip the apply step")
	assert.Empty(t, h.ans.PlaybookCalls)
}

func TestDeploy_ProductionAutoApprove(t *testing.T) {
	h := newHarness(t, config.Production)

	require.NoError(t, Deploy(context.Background(), "production", "apply",
		DeployOptions{Root: h.root, AutoApprove: true, SkipTests: true}))

	require.Len(t, h.tf.ApplyCalls, 1)
	require.Len(t, h.ans.PlaybookCalls, 1)
}

func TestDeploy_ToolFailurePropagates(t *testing.T) {
	h := newHarness(t, config.Dev)
	h.tf.PlanErr = os.ErrPermission

	err := Deploy(context.Background(), "dev", "plan", DeployOptions{Root: h.root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provision stage failed")
}

func TestBuildStages(t *testing.T) {
	saveAndRestoreFactories(t)
	newProber = func(*config.Options) configure.Prober { return immediateProber{} }

	names := func(stages []deploy.Stage) []string {
		var out []string
		for _, s := range stages {
			out = append(out, s.Name())
		}
		return out
	}

	opts := config.DefaultOptions()

	t.Run("plan", func(t *testing.T) {
		req := &config.Request{Environment: config.Dev, Action: config.Plan}
		assert.Equal(t,
			[]string{"materialize", "provision", "summary"},
			names(buildStages(req, opts, DeployOptions{})))
	})

	t.Run("apply", func(t *testing.T) {
		req := &config.Request{Environment: config.Dev, Action: config.Apply}
		assert.Equal(t,
			[]string{"materialize", "provision", "inventory", "configure", "verify", "summary"},
			names(buildStages(req, opts, DeployOptions{})))
	})

	t.Run("apply with skip-tests", func(t *testing.T) {
		req := &config.Request{Environment: config.Dev, Action: config.Apply}
		assert.Equal(t,
			[]string{"materialize", "provision", "inventory", "configure", "summary"},
			names(buildStages(req, opts, DeployOptions{SkipTests: true})))
	})

	t.Run("destroy", func(t *testing.T) {
		req := &config.Request{Environment: config.Production, Action: config.Destroy}
		assert.Equal(t,
			[]string{"materialize", "provision", "summary"},
			names(buildStages(req, opts, DeployOptions{})))
	})
}
