package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultOptionsFile is looked up in the project root when no explicit
// options file is given.
const DefaultOptionsFile = "envdeploy.yaml"

// Defaults for the readiness poll and SSH connection parameters.
const (
	DefaultReadinessAttempts = 10
	DefaultReadinessInterval = 30 * time.Second
	DefaultSSHUser           = "azureuser"
	DefaultSSHKeyPath        = "~/.ssh/id_rsa"
	DefaultSSHPort           = 22
)

// ReadinessOptions tunes the host reachability poll.
type ReadinessOptions struct {
	Attempts        int `mapstructure:"attempts"`
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// Interval returns the poll interval as a duration.
func (r ReadinessOptions) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// SSHOptions holds the fixed connection parameters written into the
// generated inventory.
type SSHOptions struct {
	User    string `mapstructure:"user"`
	KeyPath string `mapstructure:"key_path"`
	Port    int    `mapstructure:"port"`
}

// Options are per-project run options, optionally overridden by an
// envdeploy.yaml in the project root.
type Options struct {
	Readiness ReadinessOptions `mapstructure:"readiness"`
	SSH       SSHOptions       `mapstructure:"ssh"`
}

// DefaultOptions returns the built-in option values.
func DefaultOptions() *Options {
	return &Options{
		Readiness: ReadinessOptions{
			Attempts:        DefaultReadinessAttempts,
			IntervalSeconds: int(DefaultReadinessInterval / time.Second),
		},
		SSH: SSHOptions{
			User:    DefaultSSHUser,
			KeyPath: DefaultSSHKeyPath,
			Port:    DefaultSSHPort,
		},
	}
}

// LoadOptions reads run options from a YAML file, filling any omitted field
// with its default. A missing file yields the defaults.
func LoadOptions(path string) (*Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if err := mapstructure.Decode(raw, opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("options validation failed: %w", err)
	}

	return opts, nil
}

// Validate rejects option values the pipeline cannot run with.
func (o *Options) Validate() error {
	if o.Readiness.Attempts < 1 {
		return fmt.Errorf("readiness.attempts must be at least 1, got %d", o.Readiness.Attempts)
	}
	if o.Readiness.IntervalSeconds < 0 {
		return fmt.Errorf("readiness.interval_seconds must not be negative, got %d", o.Readiness.IntervalSeconds)
	}
	if o.SSH.User == "" {
		return fmt.Errorf("ssh.user must not be empty")
	}
	if o.SSH.KeyPath == "" {
		return fmt.Errorf("ssh.key_path must not be empty")
	}
	if o.SSH.Port < 1 || o.SSH.Port > 65535 {
		return fmt.Errorf("ssh.port out of range: %d", o.SSH.Port)
	}
	return nil
}
