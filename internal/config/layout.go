package config

import "path/filepath"

// File names shared between the pipeline stages and the external tools.
const (
	VarsFileName        = "terraform.tfvars"
	BackendFileName     = "backend.conf"
	AnsibleVarsFileName = "ansible_vars.yml"
	PlanFileName        = "tfplan"
	InventoryFileName   = "hosts.yml"
	PlaybookFileName    = "site.yml"
	RequirementsName    = "requirements.yml"
)

// Layout resolves all paths used by the pipeline relative to the project
// root. Each run gets its paths passed explicitly instead of relying on the
// process working directory.
type Layout struct {
	Root string
}

// NewLayout creates a layout rooted at the given project directory.
func NewLayout(root string) *Layout {
	return &Layout{Root: root}
}

// EnvironmentDir returns the configuration directory for an environment.
func (l *Layout) EnvironmentDir(env Environment) string {
	return filepath.Join(l.Root, "environments", string(env))
}

// EnvVarsFile returns the per-environment Terraform variables file.
func (l *Layout) EnvVarsFile(env Environment) string {
	return filepath.Join(l.EnvironmentDir(env), VarsFileName)
}

// EnvBackendFile returns the per-environment Terraform backend config.
func (l *Layout) EnvBackendFile(env Environment) string {
	return filepath.Join(l.EnvironmentDir(env), BackendFileName)
}

// EnvAnsibleVarsFile returns the per-environment Ansible variables file.
func (l *Layout) EnvAnsibleVarsFile(env Environment) string {
	return filepath.Join(l.EnvironmentDir(env), AnsibleVarsFileName)
}

// TerraformDir is the shared working directory Terraform runs in.
func (l *Layout) TerraformDir() string {
	return filepath.Join(l.Root, "infrastructure")
}

// SharedVarsFile is where the chosen environment's tfvars are materialized.
func (l *Layout) SharedVarsFile() string {
	return filepath.Join(l.TerraformDir(), VarsFileName)
}

// SharedBackendFile is where the chosen environment's backend config lands.
func (l *Layout) SharedBackendFile() string {
	return filepath.Join(l.TerraformDir(), BackendFileName)
}

// PlanFile is the persisted plan artifact reused by apply.
func (l *Layout) PlanFile() string {
	return filepath.Join(l.TerraformDir(), PlanFileName)
}

// AnsibleDir is the shared working directory for configuration management.
func (l *Layout) AnsibleDir() string {
	return filepath.Join(l.Root, "configuration-management")
}

// SharedAnsibleVarsFile is where the environment's Ansible vars land.
func (l *Layout) SharedAnsibleVarsFile() string {
	return filepath.Join(l.AnsibleDir(), "group_vars", "all.yml")
}

// InventoryFile is the generated Ansible inventory.
func (l *Layout) InventoryFile() string {
	return filepath.Join(l.AnsibleDir(), "inventory", InventoryFileName)
}

// PlaybookFile is the main configuration playbook.
func (l *Layout) PlaybookFile() string {
	return filepath.Join(l.AnsibleDir(), PlaybookFileName)
}

// RequirementsFile lists the Ansible collection dependencies.
func (l *Layout) RequirementsFile() string {
	return filepath.Join(l.AnsibleDir(), RequirementsName)
}

// TestsDir holds the post-deployment verification suite.
func (l *Layout) TestsDir() string {
	return filepath.Join(l.Root, "tests")
}
