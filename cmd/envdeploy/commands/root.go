// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/envdeploy/envdeploy/cmd/envdeploy/handlers"
)

// Root returns the root command for the envdeploy CLI.
//
// The root command is itself the deployment pipeline: it takes the two
// positional arguments <environment> and <action>. Utility subcommands
// (doctor, status, version, completion) hang off it.
func Root() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "envdeploy <environment> <action>",
		Short: "Deploy Azure VM environments with Terraform and Ansible",
		Long: `envdeploy sequences Terraform and Ansible to deploy one VM environment.

Arguments:
  environment   one of: dev, staging, production
  action        one of: plan, apply, destroy

The pipeline materializes the environment's configuration into the shared
tool directories, plans (and for apply/destroy, applies) the infrastructure
change, generates the Ansible inventory from Terraform outputs, waits for
the host to accept SSH, runs the configuration playbook, optionally runs
the verification test suite, and prints a summary.

Applying to production asks for interactive confirmation; pass
--auto-approve in CI.

Examples:
  # Review pending changes for dev
  envdeploy dev plan

  # Deploy staging end to end
  envdeploy staging apply

  # Deploy production non-interactively
  envdeploy production apply --auto-approve

  # Tear down dev
  envdeploy dev destroy`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Deploy(cmd.Context(), args[0], args[1], opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&opts.AutoApprove, "auto-approve", false, "Skip the production confirmation prompt")
	cmd.Flags().StringVarP(&opts.Root, "chdir", "C", ".", "Project root directory")
	cmd.Flags().BoolVar(&opts.SkipTests, "skip-tests", false, "Skip the post-deployment verification suite")

	cmd.AddCommand(Doctor())
	cmd.AddCommand(Status())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
