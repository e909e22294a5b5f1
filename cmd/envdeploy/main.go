// Package main is the entry point for the envdeploy CLI.
//
// envdeploy orchestrates Azure VM deployments across dev, staging, and
// production. It sequences Terraform and Ansible: materializing environment
// configuration, planning and applying infrastructure, generating the
// inventory, waiting for host readiness, running the configuration playbook,
// and printing a deployment summary.
//
// Usage:
//
//	envdeploy <environment> <action>
//
// For detailed usage information, run:
//
//	envdeploy --help
package main

import (
	"fmt"
	"os"

	"github.com/envdeploy/envdeploy/cmd/envdeploy/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
