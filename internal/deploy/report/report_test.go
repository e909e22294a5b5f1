package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/deploy/deploytest"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
)

func newContext(t *testing.T, tf *deploytest.TerraformRunner) (*deploy.Context, *Stage, *bytes.Buffer) {
	t.Helper()
	ctx := &deploy.Context{
		Context:   context.Background(),
		Request:   &config.Request{Environment: config.Dev, Action: config.Apply},
		Layout:    config.NewLayout(t.TempDir()),
		Options:   config.DefaultOptions(),
		State:     deploy.NewState(),
		Terraform: tf,
		Observer:  deploytest.NewObserver(),
	}

	var buf bytes.Buffer
	stage := New()
	stage.Out = &buf
	return ctx, stage, &buf
}

func TestRun_AllOutputsPresent(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	tf.OutputValues[terraform.OutputPublicIP] = "203.0.113.10"
	tf.OutputValues[terraform.OutputVMName] = "dev-vm"
	tf.OutputValues[terraform.OutputResourceGroup] = "rg-dev"
	tf.OutputValues[terraform.OutputSSHCommand] = "ssh azureuser@203.0.113.10"

	ctx, stage, buf := newContext(t, tf)
	require.NoError(t, stage.Run(ctx))

	out := buf.String()
	assert.Contains(t, out, "dev-vm")
	assert.Contains(t, out, "203.0.113.10")
	assert.Contains(t, out, "rg-dev")
	assert.Contains(t, out, "ssh azureuser@203.0.113.10")
	assert.Contains(t, out, "http://203.0.113.10")
	assert.NotContains(t, out, "N/A")
}

func TestRun_FailedQueriesFallBackToPlaceholder(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	tf.OutputErrs[terraform.OutputPublicIP] = errors.New("no state")
	tf.OutputErrs[terraform.OutputVMName] = errors.New("no state")
	tf.OutputErrs[terraform.OutputResourceGroup] = errors.New("no state")
	tf.OutputErrs[terraform.OutputSSHCommand] = errors.New("no state")

	ctx, stage, buf := newContext(t, tf)
	require.NoError(t, stage.Run(ctx), "summary must never abort")

	assert.Contains(t, buf.String(), "N/A")
}

func TestRun_PartialOutputs(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	tf.OutputValues[terraform.OutputVMName] = "staging-vm"
	tf.OutputErrs[terraform.OutputPublicIP] = errors.New("not yet populated")
	tf.OutputErrs[terraform.OutputResourceGroup] = errors.New("not yet populated")
	tf.OutputErrs[terraform.OutputSSHCommand] = errors.New("not yet populated")

	ctx, stage, buf := newContext(t, tf)
	require.NoError(t, stage.Run(ctx))

	out := buf.String()
	assert.Contains(t, out, "staging-vm")
	assert.Contains(t, out, "N/A")
}

func TestRun_MentionsUnreachableHost(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx, stage, buf := newContext(t, tf)
	ctx.State.Readiness = deploy.ReadinessUnreachable

	require.NoError(t, stage.Run(ctx))
	assert.Contains(t, buf.String(), "unreachable")
}
