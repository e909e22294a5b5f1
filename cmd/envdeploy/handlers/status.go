package handlers

import (
	"context"
	"path/filepath"

	"github.com/envdeploy/envdeploy/internal/config"
	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/deploy/report"
)

// Status prints the deployment summary for an environment without running
// any other stage. It reads the currently materialized Terraform state's
// outputs; fields that cannot be read show as "N/A".
func Status(ctx context.Context, envArg, root string) error {
	env, err := config.ParseEnvironment(envArg)
	if err != nil {
		return err
	}

	layout := config.NewLayout(root)
	if err := config.ValidateEnvironmentDir(layout, env); err != nil {
		return err
	}

	runOpts, err := loadOptions(filepath.Join(layout.Root, config.DefaultOptionsFile))
	if err != nil {
		return err
	}

	pctx := deploy.NewContext(ctx,
		&config.Request{Environment: env},
		layout, runOpts,
		newTerraformRunner(layout.TerraformDir()),
		newAnsibleRunner(layout.AnsibleDir()),
	)

	return runPipeline(pctx, []deploy.Stage{report.New()})
}
