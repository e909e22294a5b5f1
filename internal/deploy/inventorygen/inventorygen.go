// Package inventorygen derives the Ansible inventory from Terraform
// outputs. The inventory is regenerated on every run and fully overwrites
// any previous file; the configuration tool is its only reader.
package inventorygen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/envdeploy/envdeploy/internal/deploy"
	"github.com/envdeploy/envdeploy/internal/platform/terraform"
)

// Record is one inventory host synthesized from provisioning outputs.
type Record struct {
	HostName    string
	HostAddress string
	SSHUser     string
	SSHKeyPath  string
	Environment string
}

type hostVars struct {
	AnsibleHost              string `yaml:"ansible_host"`
	AnsibleUser              string `yaml:"ansible_user"`
	AnsibleSSHPrivateKeyFile string `yaml:"ansible_ssh_private_key_file"`
}

type groupVars struct {
	// StrictHostKeyChecking stays off: ephemeral cloud hosts get fresh
	// host keys on every deploy.
	AnsibleSSHCommonArgs string `yaml:"ansible_ssh_common_args"`
	DeployEnvironment    string `yaml:"deploy_environment"`
}

type group struct {
	Hosts map[string]hostVars `yaml:"hosts"`
	Vars  groupVars           `yaml:"vars"`
}

type inventory struct {
	All struct {
		Children struct {
			AzureVMs group `yaml:"azure_vms"`
		} `yaml:"children"`
	} `yaml:"all"`
}

// Render produces the inventory file content for a record. Rendering the
// same record twice yields byte-identical output.
func Render(rec Record) ([]byte, error) {
	if rec.HostAddress == "" {
		return nil, fmt.Errorf("host address is empty")
	}
	if rec.HostName == "" {
		return nil, fmt.Errorf("host name is empty")
	}

	var inv inventory
	inv.All.Children.AzureVMs = group{
		Hosts: map[string]hostVars{
			rec.HostName: {
				AnsibleHost:              rec.HostAddress,
				AnsibleUser:              rec.SSHUser,
				AnsibleSSHPrivateKeyFile: rec.SSHKeyPath,
			},
		},
		Vars: groupVars{
			AnsibleSSHCommonArgs: "-o StrictHostKeyChecking=no",
			DeployEnvironment:    rec.Environment,
		},
	}

	data, err := yaml.Marshal(&inv)
	if err != nil {
		return nil, fmt.Errorf("failed to render inventory: %w", err)
	}
	return data, nil
}

// Stage queries the provisioning outputs and writes the inventory file.
type Stage struct{}

// New creates the inventory generator stage.
func New() *Stage {
	return &Stage{}
}

// Name implements deploy.Stage.
func (s *Stage) Name() string { return "inventory" }

// Run implements deploy.Stage.
func (s *Stage) Run(ctx *deploy.Context) error {
	ip, err := ctx.Terraform.Output(ctx, terraform.OutputPublicIP)
	if err != nil || ip == "" {
		return fmt.Errorf("provisioning output %s unavailable: cannot configure a host that does not exist", terraform.OutputPublicIP)
	}

	name, err := ctx.Terraform.Output(ctx, terraform.OutputVMName)
	if err != nil || name == "" {
		return fmt.Errorf("provisioning output %s unavailable: cannot configure a host that does not exist", terraform.OutputVMName)
	}

	ctx.State.Outputs.PublicIP = ip
	ctx.State.Outputs.VMName = name

	rec := Record{
		HostName:    name,
		HostAddress: ip,
		SSHUser:     ctx.Options.SSH.User,
		SSHKeyPath:  ctx.Options.SSH.KeyPath,
		Environment: string(ctx.Request.Environment),
	}

	data, err := Render(rec)
	if err != nil {
		return err
	}

	path := ctx.Layout.InventoryFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}

	ctx.State.InventoryFile = path
	ctx.Observer.Successf("inventory written for %s (%s)", name, ip)
	return nil
}
