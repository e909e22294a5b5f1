package handlers

import (
	"fmt"

	"github.com/envdeploy/envdeploy/internal/ui"
	"github.com/envdeploy/envdeploy/internal/util/prerequisites"
)

// checkAllPrereqs is replaceable in tests.
var checkAllPrereqs = prerequisites.CheckAll

// Doctor checks that every tool the pipeline shells out to is installed and
// prints one status line per tool. Missing required tools make it fail.
func Doctor() error {
	results := checkAllPrereqs()

	for _, r := range results.Results {
		switch {
		case r.Found && r.Version != "":
			fmt.Println(ui.Success(fmt.Sprintf("%s (%s)", r.Tool.Name, r.Version)))
		case r.Found:
			fmt.Println(ui.Success(r.Tool.Name))
		case r.Tool.Required:
			fmt.Println(ui.Fail(fmt.Sprintf("%s missing - %s", r.Tool.Name, r.Tool.InstallURL)))
		default:
			fmt.Println(ui.Warn(fmt.Sprintf("%s missing (optional) - %s", r.Tool.Name, r.Tool.Description)))
		}
	}

	return results.Error()
}
