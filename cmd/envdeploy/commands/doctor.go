package commands

import (
	"github.com/spf13/cobra"

	"github.com/envdeploy/envdeploy/cmd/envdeploy/handlers"
)

// Doctor returns the command for checking deployment prerequisites.
//
// It verifies the external tools the pipeline shells out to (terraform,
// ansible-playbook, ansible-galaxy) plus the optional ones (pytest, az).
func Doctor() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that required client tools are installed",
		Long: `Check that the tools envdeploy shells out to are available.

Required: terraform, ansible-playbook, ansible-galaxy
Optional: pytest (verification suite), az (manual inspection)

Example:
  envdeploy doctor`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Doctor()
		},
		SilenceUsage: true,
	}
}
