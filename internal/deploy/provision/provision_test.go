package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/deploy/deploytest"
)

type confirmFunc func(title, description string) (bool, error)

func (f confirmFunc) Confirm(title, description string) (bool, error) {
	return f(title, description)
}

func approve() confirmFunc {
	return func(_, _ string) (bool, error) { return true, nil }
}

func newContext(env config.Environment, action config.Action, tf *deploytest.TerraformRunner) *deploy.Context {
	return &deploy.Context{
		Context:   context.Background(),
		Request:   &config.Request{Environment: env, Action: action},
		Layout:    config.NewLayout("/proj"),
		Options:   config.DefaultOptions(),
		State:     deploy.NewState(),
		Terraform: tf,
		Observer:  deploytest.NewObserver(),
	}
}

func TestRun_PlanOnlyStopsBeforeApply(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Dev, config.Plan, tf)

	require.NoError(t, New(approve()).Run(ctx))

	require.Len(t, tf.InitCalls, 1)
	require.Len(t, tf.PlanCalls, 1)
	assert.False(t, tf.PlanCalls[0].Destroy)
	assert.Empty(t, tf.ApplyCalls)
}

func TestRun_ApplyReusesPlanArtifact(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Dev, config.Apply, tf)

	require.NoError(t, New(approve()).Run(ctx))

	require.Len(t, tf.PlanCalls, 1)
	require.Len(t, tf.ApplyCalls, 1)
	assert.Equal(t, tf.PlanCalls[0].PlanFile, tf.ApplyCalls[0])
}

func TestRun_DestroyPlansInDestructiveMode(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Staging, config.Destroy, tf)

	require.NoError(t, New(approve()).Run(ctx))

	require.Len(t, tf.PlanCalls, 1)
	assert.True(t, tf.PlanCalls[0].Destroy)
	require.Len(t, tf.ApplyCalls, 1)
}

func TestRun_ProductionApplyDeclined(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Production, config.Apply, tf)

	decline := confirmFunc(func(_, _ string) (bool, error) { return false, nil })
	err := New(decline).Run(ctx)

	require.ErrorIs(t, err, deploy.ErrCancelled)
	assert.Empty(t, tf.ApplyCalls)
}

func TestRun_ProductionApplyConfirmed(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Production, config.Apply, tf)

	asked := false
	confirm := confirmFunc(func(title, _ string) (bool, error) {
		asked = true
		assert.Contains(t, title, "production")
		return true, nil
	})

	require.NoError(t, New(confirm).Run(ctx))
	assert.True(t, asked)
	require.Len(t, tf.ApplyCalls, 1)
}

func TestRun_NonProductionApplyDoesNotPrompt(t *testing.T) {
	tf := deploytest.NewTerraformRunner()
	ctx := newContext(config.Dev, config.Apply, tf)

	confirm := confirmFunc(func(_, _ string) (bool, error) {
		t.Fatal("confirmation must not be requested outside production applies")
		return false, nil
	})

	require.NoError(t, New(confirm).Run(ctx))
}

func TestRun_ToolFailuresAreFatal(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		tf := deploytest.NewTerraformRunner()
		tf.InitErr = errors.New("backend unavailable")
		err := New(approve()).Run(newContext(config.Dev, config.Apply, tf))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "init failed")
	})

	t.Run("plan", func(t *testing.T) {
		tf := deploytest.NewTerraformRunner()
		tf.PlanErr = errors.New("invalid variable")
		err := New(approve()).Run(newContext(config.Dev, config.Apply, tf))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plan failed")
	})

	t.Run("apply", func(t *testing.T) {
		tf := deploytest.NewTerraformRunner()
		tf.ApplyErr = errors.New("quota exceeded")
		err := New(approve()).Run(newContext(config.Dev, config.Apply, tf))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apply failed")
	})
}
