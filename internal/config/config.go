// Package config defines the deployment request model, the on-disk project
// layout, and loaders for environment and run configuration.
package config

import (
	"fmt"
	"os"
)

// Environment identifies one of the fixed deployment environments.
type Environment string

// Deployment environments.
const (
	Dev        Environment = "dev"
	Staging    Environment = "staging"
	Production Environment = "production"
)

// Action identifies what the pipeline should do with the environment.
type Action string

// Deployment actions.
const (
	Plan    Action = "plan"
	Apply   Action = "apply"
	Destroy Action = "destroy"
)

// Environments lists all valid environments in display order.
func Environments() []Environment {
	return []Environment{Dev, Staging, Production}
}

// Actions lists all valid actions in display order.
func Actions() []Action {
	return []Action{Plan, Apply, Destroy}
}

// InvalidArgumentError reports which positional argument failed validation.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Allowed  []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q (must be one of %v)", e.Argument, e.Value, e.Allowed)
}

// Request is an immutable deployment request parsed from CLI arguments.
type Request struct {
	Environment Environment
	Action      Action
}

// ParseEnvironment validates an environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case Dev, Staging, Production:
		return Environment(s), nil
	}
	return "", &InvalidArgumentError{
		Argument: "environment",
		Value:    s,
		Allowed:  []string{string(Dev), string(Staging), string(Production)},
	}
}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Plan, Apply, Destroy:
		return Action(s), nil
	}
	return "", &InvalidArgumentError{
		Argument: "action",
		Value:    s,
		Allowed:  []string{string(Plan), string(Apply), string(Destroy)},
	}
}

// ParseRequest validates both positional arguments and builds a Request.
// It makes no external calls and has no side effects.
func ParseRequest(envArg, actionArg string) (*Request, error) {
	env, err := ParseEnvironment(envArg)
	if err != nil {
		return nil, err
	}

	action, err := ParseAction(actionArg)
	if err != nil {
		return nil, err
	}

	return &Request{Environment: env, Action: action}, nil
}

// ValidateEnvironmentDir confirms the environment has a configuration
// directory in the given layout. Checked before any destructive action.
func ValidateEnvironmentDir(layout *Layout, env Environment) error {
	dir := layout.EnvironmentDir(env)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("environment directory not found: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("environment path is not a directory: %s", dir)
	}
	return nil
}
