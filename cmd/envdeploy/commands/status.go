package commands

import (
	"github.com/spf13/cobra"

	"github.com/envdeploy/envdeploy/cmd/envdeploy/handlers"
)

// Status returns the status command.
//
// Status runs only the summary reporter: it queries the current Terraform
// outputs for an environment and prints the deployment summary without
// changing anything.
func Status() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "status <environment>",
		Short: "Show the current deployment state of an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), args[0], root)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&root, "chdir", "C", ".", "Project root directory")

	return cmd
}
